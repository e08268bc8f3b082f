package domain

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// Username попадает в имя IAM-роли и в префикс ключей S3,
	// поэтому алфавит жёстко ограничен.
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{2,31}$`)
)

func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// Пароль — любой непустой. Политики сложности нет — это осознанно
// вне скоупа (см. README).
func ValidPassword(s string) bool {
	return s != ""
}

// ValidLongURL принимает только абсолютные http(s)-ссылки.
func ValidLongURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// OwnsKey — жёсткое предусловие для delete/share: ключ обязан лежать
// в поддереве пользователя.
func OwnsKey(username, key string) bool {
	return username != "" && strings.HasPrefix(key, username+"/")
}
