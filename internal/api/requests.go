package api

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json names so errors name the wire field.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// SearchParams are the query parameters of GET /search
type SearchParams struct {
	From string
	To   string
	Date string
}

func (p SearchParams) values() url.Values {
	q := url.Values{}
	if p.From != "" {
		q.Set("from", strings.ToUpper(p.From))
	}
	if p.To != "" {
		q.Set("to", strings.ToUpper(p.To))
	}
	if p.Date != "" {
		q.Set("date", p.Date)
	}
	return q
}

// Passenger is one traveller in a create-booking request
type Passenger struct {
	Name      string `json:"name,omitempty" validate:"required_without_all=FirstName LastName"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// ContactInfo is the booking contact in a create-booking request
type ContactInfo struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

// CreateBookingRequest is the body of POST /booking
type CreateBookingRequest struct {
	UserID       string      `json:"userId" validate:"required"`
	FlightID     string      `json:"flightId" validate:"required"`
	Passengers   []Passenger `json:"passengers" validate:"required,min=1,dive"`
	ContactInfo  ContactInfo `json:"contactInfo"`
	PaymentToken string      `json:"paymentToken,omitempty"`
}

// NewCreateBookingRequest builds the wire request from domain values.
func NewCreateBookingRequest(userID, flightID string, passengers []models.Passenger, contact models.ContactInfo, paymentToken string) CreateBookingRequest {
	req := CreateBookingRequest{
		UserID:   strings.TrimSpace(userID),
		FlightID: strings.TrimSpace(flightID),
		ContactInfo: ContactInfo{
			Email: strings.TrimSpace(contact.Email),
			Phone: contact.Phone,
			Name:  contact.Name,
		},
		PaymentToken: paymentToken,
	}
	for _, p := range passengers {
		req.Passengers = append(req.Passengers, Passenger{
			Name:      strings.TrimSpace(p.Name),
			FirstName: strings.TrimSpace(p.FirstName),
			LastName:  strings.TrimSpace(p.LastName),
			Email:     strings.TrimSpace(p.Email),
		})
	}
	return req
}

// Validate checks required fields. The first violation is returned as a
// *models.ValidationError naming the json field path, e.g. "contactInfo.email".
func (r CreateBookingRequest) Validate() error {
	return validationError(validate.Struct(r))
}

// ValidateDetails checks everything Validate does except the user id, which
// callers may still have to resolve.
func (r CreateBookingRequest) ValidateDetails() error {
	return validationError(validate.StructExcept(r, "UserID"))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewValidationError("booking", err.Error())
	}

	first := verrs[0]
	field := first.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	return models.NewValidationError(field, reason(first))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without_all":
		return "is required"
	case "min":
		return "must contain at least " + fe.Param() + " item"
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// AddPointsRequest is the body of POST /loyalty
type AddPointsRequest struct {
	PointsToAdd int `json:"pointsToAdd"`
}
