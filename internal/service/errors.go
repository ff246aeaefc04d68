package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTokenInvalid       = errors.New("token invalid")

	ErrOrderNotFound        = errors.New("order not found")
	ErrNotBoxOrder          = errors.New("order is not a box order")
	ErrBoxEditingDisabled   = errors.New("box editing is disabled")
	ErrNoPendingBoxes       = errors.New("no pending boxes for session")
	ErrSessionRequired      = errors.New("box session is required")
	ErrRoleNotAllowed       = errors.New("role may not place box orders")
	ErrGuestModeDisabled    = errors.New("guest box orders are disabled")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrBillingRequired      = errors.New("guest billing name and email are required")
	ErrOrderCreateFailed    = errors.New("order create failed")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidCollection    = errors.New("invalid collection method")
	ErrInvalidPickupDate    = errors.New("invalid pickup date")
	ErrInvalidPickupTime    = errors.New("invalid pickup time")
	ErrSettingInvalid       = errors.New("invalid setting value")
	ErrInvalidListSort      = errors.New("invalid list sort")

	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrCaptchaUnavailable = errors.New("captcha unavailable")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
