package services

import "errors"

var (
	ErrUnitNotFound             = errors.New("unit not found")
	ErrAlertNotFound            = errors.New("alert not found")
	ErrAcknowledgeUnsupported   = errors.New("alert acknowledgement is not supported by the data source")
	ErrContactDriverUnsupported = errors.New("contacting drivers is not supported")
	ErrNoDriver                 = errors.New("unit has no assigned driver")
	ErrProviderUnavailable      = errors.New("data provider unavailable")
)
