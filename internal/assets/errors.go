package assets

import "errors"

var (
	ErrInvalidBasePath = errors.New("assets: invalid override directory")
	ErrPathTraversal   = errors.New("assets: path escapes base directory")
)
