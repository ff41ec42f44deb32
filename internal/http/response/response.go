// Package response единый формат JSON-ответов HTTP-обработчиков.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response стандартная структура JSON-ответа сервера.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ответ с ошибкой msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError собирает ошибки валидатора в одно сообщение через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", field, lengthHint(err)))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most %s", field, lengthHint(err)))
		case "bcryptlen":
			msgs = append(msgs, fmt.Sprintf("field %s must be at most 72 bytes", field))
		case "gt", "gte", "lt", "lte":
			msgs = append(msgs, fmt.Sprintf("field %s is out of range (%s %s)", field, err.ActualTag(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
	}
}

// ValidationMessage приводит ошибку валидации к тексту ответа.
func ValidationMessage(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationError(verrs)
	}
	return Error(err.Error())
}

func lengthHint(err validator.FieldError) string {
	if err.Kind().String() == "string" {
		return err.Param() + " characters"
	}
	return err.Param()
}
