package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	valid := []string{"alice", "bob42", "a-b_c", "Xyz", "u12"}
	for _, u := range valid {
		assert.True(t, ValidUsername(u), u)
	}

	// короткие, не с буквы/цифры, пробелы, пути, не-ASCII
	invalid := []string{
		"",
		"ab",
		"-alice",
		"_alice",
		"al ice",
		"alice/../bob",
		strings.Repeat("a", 33),
		"пользователь",
		"alice\n",
	}
	for _, u := range invalid {
		assert.False(t, ValidUsername(u), u)
	}
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("12345678"))
	assert.True(t, ValidPassword("длинный-пароль"))
	assert.True(t, ValidPassword("pw1")) // короткие пароли не отсекаем
	assert.False(t, ValidPassword(""))
}

func TestValidLongURL(t *testing.T) {
	assert.True(t, ValidLongURL("https://example.com/a?b=c"))
	assert.True(t, ValidLongURL("http://localhost:8080/x"))
	assert.False(t, ValidLongURL(""))
	assert.False(t, ValidLongURL("ftp://example.com/a"))
	assert.False(t, ValidLongURL("example.com/no-scheme"))
	assert.False(t, ValidLongURL("https://"))
}

func TestOwnsKey(t *testing.T) {
	assert.True(t, OwnsKey("alice", "alice/123-photo.jpg"))
	assert.False(t, OwnsKey("alice", "bob/123-photo.jpg"))
	assert.False(t, OwnsKey("alice", "alicephoto.jpg"))
	assert.False(t, OwnsKey("alice", "alice"))
	assert.False(t, OwnsKey("", "/x"))
}
