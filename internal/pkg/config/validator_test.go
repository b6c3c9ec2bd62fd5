package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 7 * * 1-5"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule(""))
	assert.Error(t, ValidateCronSchedule("0 7 * *"))
	assert.Error(t, ValidateCronSchedule("0 25 * * *"))
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus_Mons"))
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.NoError(t, ValidateDuration(time.Second, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(2*time.Hour, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(time.Minute, time.Hour, time.Second))
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(22, 1, 65535))
	assert.Error(t, ValidateIntRange(0, 1, 65535))
	assert.Error(t, ValidateIntRange(65536, 1, 65535))
	assert.Error(t, ValidateIntRange(5, 10, 1))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateHost(t *testing.T) {
	tests := []struct {
		host    string
		wantErr bool
	}{
		{host: "sftp.pac.example.edu"},
		{host: "10.0.0.12"},
		{host: "::1"},
		{host: "", wantErr: true},
		{host: "sftp.example.edu:22", wantErr: true},
		{host: "sftp://sftp.example.edu", wantErr: true},
		{host: "bad host", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			err := ValidateHost(tt.host)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRemotePath(t *testing.T) {
	assert.NoError(t, ValidateRemotePath("BATCH-AP-LIBRY-ERR"))
	assert.NoError(t, ValidateRemotePath("/home/libry/BATCH-AP-LIBRY-ERR"))
	assert.NoError(t, ValidateRemotePath("alma/erp"))
	assert.Error(t, ValidateRemotePath(""))
	assert.Error(t, ValidateRemotePath("   "))
	assert.Error(t, ValidateRemotePath("../etc/passwd"))
	assert.Error(t, ValidateRemotePath("a/../../b"))
	assert.Error(t, ValidateRemotePath("name\nrm -rf"))
}
