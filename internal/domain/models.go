package domain

import "time"

// Пользователь. Ключ — username, неизменяемый после регистрации.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // argon2id, наружу не отдаём
	RoleArn      string    `json:"-"` // ARN роли доступа к своему префиксу
	CreatedAt    time.Time `json:"created_at"`

	// Сброс пароля: оба поля либо заданы, либо пусты.
	ResetToken  string    `json:"-"`
	ResetExpiry time.Time `json:"-"`
}

// HasPendingReset — есть ли активная (ещё не потреблённая) заявка на сброс.
func (u User) HasPendingReset() bool {
	return u.ResetToken != "" && !u.ResetExpiry.IsZero()
}

// Временные креды STS, живут не дольше часа. Сервер их не хранит.
type CredentialLease struct {
	AccessKeyID     string    `json:"accessKeyId"`
	SecretAccessKey string    `json:"secretAccessKey"`
	SessionToken    string    `json:"sessionToken"`
	Expiration      time.Time `json:"expiration"`
}

// Описание поддерева хранилища, которым клиент может пользоваться напрямую.
type ScopeDescriptor struct {
	Bucket string `json:"bucket"`
	Folder string `json:"folder"` // "{username}/"
	Region string `json:"region"`
}

// Объект в хранилище + пресайн-ссылка на чтение.
type Photo struct {
	Key          string    `json:"key"`
	FileName     string    `json:"fileName"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Короткая ссылка. Ключ — ShortID.
type ShortLink struct {
	ShortID   string    `json:"shortId"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
	// Unix-секунды; по этому полю хранилище само выметает просроченные записи.
	TTL int64 `json:"ttl"`
}
