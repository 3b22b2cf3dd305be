package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmployeeExists     = errors.New("employee already exists")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("not enough permissions")
)
