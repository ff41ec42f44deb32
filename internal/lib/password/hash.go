// Package password реализует одностороннее хеширование паролей пользователей.
//
// Hasher хранит стоимость bcrypt (аналог SALT_ROUNDS из конфигурации)
// и не имеет другого состояния, поэтому один экземпляр безопасно
// использовать из нескольких горутин.
package password

import (
	"fmt"

	"github.com/go-playground/validator"
	"golang.org/x/crypto/bcrypt"
)

// MaxBytes предел длины пароля bcrypt в байтах, а не в символах.
const MaxBytes = 72

// LengthTag тег валидатора, ограничивающий пароль MaxBytes байтами.
const LengthTag = "bcryptlen"

// NewValidator возвращает validator с зарегистрированным тегом LengthTag.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(LengthTag, fitsBcrypt); err != nil {
		panic(fmt.Sprintf("password: register %s: %v", LengthTag, err))
	}
	return v
}

func fitsBcrypt(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxBytes
}

// Hasher создаёт и проверяет bcrypt-хэши паролей.
type Hasher struct {
	cost int
}

// NewHasher возвращает Hasher с заданной стоимостью bcrypt.
// Нулевое значение означает bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost возвращает используемую стоимость bcrypt.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func (h *Hasher) Hash(plain string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе ошибку.
func (h *Hasher) Compare(hash, plain string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
