package service

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrFailedValidation = errors.New("failed validation")
	ErrRecordNotFound   = errors.New("record not found")
	ErrBadRequest       = errors.New("bad request")
)

// failedValidation flattens a validation error map into a single error
// wrapping ErrFailedValidation, with fields in a stable order.
func (s *service) failedValidation(errorMap map[string]string) error {
	keys := make([]string, 0, len(errorMap))
	for k := range errorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	err := ErrFailedValidation
	for _, k := range keys {
		err = fmt.Errorf("%w: %q %s", err, k, errorMap[k])
	}
	return err
}
