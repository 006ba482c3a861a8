package infringement

import (
	"errors"
	"fmt"
)

var (
	ErrPatentNotFound       = errors.New("patent not found")
	ErrCompanyNotFound      = errors.New("company not found")
	ErrNoInfringingProducts = errors.New("no infringing products found")
	ErrUpstream             = errors.New("upstream assessment failed")
)

// lookupError names the missing key while matching its sentinel with errors.Is
type lookupError struct {
	kind     string
	key      string
	sentinel error
}

func (e *lookupError) Error() string {
	return fmt.Sprintf("%s %s not found", e.kind, e.key)
}

func (e *lookupError) Unwrap() error {
	return e.sentinel
}

func patentNotFound(id string) error {
	return &lookupError{kind: "Patent", key: id, sentinel: ErrPatentNotFound}
}

func companyNotFound(name string) error {
	return &lookupError{kind: "Company", key: name, sentinel: ErrCompanyNotFound}
}
