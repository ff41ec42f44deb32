package response

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/syara/internal/lib/password"
)

type sample struct {
	Name  string `validate:"required,min=3"`
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=150"`
	Tags  []int  `validate:"max=2"`
}

func TestValidationError(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name  string
		input sample
		want  []string
	}{
		{
			name:  "пустые обязательные поля",
			input: sample{},
			want:  []string{"field Name is a required field", "field Email is a required field"},
		},
		{
			name:  "короткое имя и плохой email",
			input: sample{Name: "ab", Email: "nope"},
			want:  []string{"field Name must be at least 3 characters", "field Email must be a valid email"},
		},
		{
			name:  "диапазон и длина среза",
			input: sample{Name: "abc", Email: "a@b.io", Age: 200, Tags: []int{1, 2, 3}},
			want:  []string{"field Age is out of range (lte 150)", "field Tags must be at most 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			resp := ValidationMessage(err)
			assert.Equal(t, StatusError, resp.Status)
			for _, w := range tt.want {
				assert.Contains(t, resp.Error, w)
			}
		})
	}
}

func TestValidationError_PasswordBytes(t *testing.T) {
	type input struct {
		Password string `validate:"required,max=72,bcryptlen"`
	}
	err := password.NewValidator().Struct(input{Password: strings.Repeat("ж", 40)})

	resp := ValidationMessage(err)
	assert.Equal(t, "field Password must be at most 72 bytes", resp.Error)
}

func TestValidationMessage_PlainError(t *testing.T) {
	resp := ValidationMessage(errors.New("limit must not be negative"))
	assert.Equal(t, ErrorResponse{Status: StatusError, Error: "limit must not be negative"}, resp)
}

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]int{"id": 1})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
}
