package service

import "errors"

// Sentinel errors for business-rule violations. Handlers map these onto the
// HTTP taxonomy; everything else becomes a 500.
var (
	// Identity
	ErrUserConflict         = errors.New("username or email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrRecoveryNotAvailable = errors.New("invalid email or security question not set")
	ErrWrongSecurityAnswer  = errors.New("incorrect security answer")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("invalid role")

	// Catalog
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseCodeTaken = errors.New("course code already exists")

	// Ledger
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrCourseFull         = errors.New("course is full")

	// Authorization. Denials wrap this sentinel with the policy reason so the
	// message reaches the caller verbatim.
	ErrForbidden = errors.New("access denied")
)
