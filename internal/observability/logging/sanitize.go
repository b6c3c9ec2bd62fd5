package logging

import (
	"regexp"
)

var (
	// user:password@host 形式の URL / 接続文字列
	urlPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	// password=xxx, password: xxx 形式
	passwordFieldPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)(\s*[=:]\s*)("[^"]*"|\S+)`)

	// Slack / Discord の webhook トークン
	slackWebhookPattern   = regexp.MustCompile(`hooks\.slack\.com/services/[A-Za-z0-9/_-]+`)
	discordWebhookPattern = regexp.MustCompile(`discord(app)?\.com/api/webhooks/[0-9]+/[A-Za-z0-9_-]+`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks credentials and webhook tokens in s.
func SanitizeString(s string) string {
	s = urlPasswordPattern.ReplaceAllString(s, "://$1:****@")
	s = passwordFieldPattern.ReplaceAllString(s, "$1$2****")
	s = slackWebhookPattern.ReplaceAllString(s, "hooks.slack.com/services/****")
	s = discordWebhookPattern.ReplaceAllString(s, "discord.com/api/webhooks/****")
	return s
}
