package project

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project name already exists")
	ErrTaskNotFound    = errors.New("task not found")
)
