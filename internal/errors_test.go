package internal_test

import (
	"errors"
	"net/http"

	"github.com/Affo25/imsdashboard/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("should report duplicate emails as a conflict answered with 400", func() {
		Expect(internal.ErrEmailExists.Type).To(Equal(internal.ErrorTypeConflict))
		Expect(internal.ErrEmailExists.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(internal.ErrEmailExists.GetDetailedMessage()).To(Equal("Email already exists"))
	})

	It("should keep the unauthenticated message neutral", func() {
		Expect(internal.ErrUnauthorized.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(internal.ErrUnauthorized.GetDetailedMessage()).To(Equal("Unauthorized"))
	})

	It("should join several field errors into one line", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "email", Message: "Invalid email format"},
				{Field: "password", Message: "Password must be at least 6 characters long"},
			}})
		Expect(err.GetDetailedMessage()).To(Equal("Invalid email format; Password must be at least 6 characters long"))
	})

	It("should attach a cause without touching the sentinel", func() {
		cause := errors.New("connection refused")
		err := internal.ErrInternal.WithCause(cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(internal.ErrInternal.Cause).To(BeNil())
	})
})
