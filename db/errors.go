package db

import "errors"

var ErrNotFound = errors.New("not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IgnoreErrNotFound(err error) error {
	if IsNotFound(err) {
		return nil
	}
	return err
}
