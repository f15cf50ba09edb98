// Package status declares error constants returned by
// implementations of the storage.Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementations.
package status

import "github.com/scode/shastity/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrUnauthorized indicates that no valid credentials were provided to the backend API
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that the backend API forbids access to the target resource
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidResource indicates that the storage resource has an invalid name
	ErrInvalidResource = errors.New("invalid storage resource name")

	// ErrStorageAPI indicates any other backend API error. Transport
	// and auth errors wrapped in these sentinels are propagated
	// unchanged to callers; retrying is not this layer's business.
	ErrStorageAPI = errors.New("storage API error")
)
