// Package checkout assembles orders from the cart snapshot and shipping form
// and submits them to the order service.
package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/estorelabs/storefront/internal/cart"
	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/session"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// GuestUserID is recorded when no one is logged in at checkout.
const GuestUserID = "guest"

type orderPlacer interface {
	PlaceOrder(ctx context.Context, order catalog.Order) (*catalog.Confirmation, error)
}

type cartSource interface {
	Snapshot() cart.State
	Clear(ctx context.Context) error
}

type identitySource interface {
	Snapshot() session.State
}

// ShippingDetails is the checkout form. All fields are required.
type ShippingDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
}

// Service exposes the checkout operation.
type Service interface {
	PlaceOrder(ctx context.Context, details ShippingDetails) (*catalog.Confirmation, error)
}

type service struct {
	client   orderPlacer
	cart     cartSource
	identity identitySource
	logg     *logger.Logger
	validate *validator.Validate
}

// NewService builds a checkout service over the provided stores and client.
func NewService(client orderPlacer, cartStore cartSource, identity identitySource, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:   client,
		cart:     cartStore,
		identity: identity,
		logg:     logg,
		validate: newValidator(),
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// PlaceOrder validates the shipping form, snapshots the cart, submits the
// order, and clears the cart on success. Network failures surface to the
// caller; the cart is left intact so the user can retry.
func (s *service) PlaceOrder(ctx context.Context, details ShippingDetails) (*catalog.Confirmation, error) {
	if err := s.validate.Struct(details); err != nil {
		return nil, formatValidationErrors(err)
	}

	snapshot := s.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	userID := GuestUserID
	if state := s.identity.Snapshot(); state.User != nil && state.User.Username != "" {
		userID = state.User.Username
	}

	items := make([]catalog.OrderItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, catalog.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order := catalog.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Items:     items,
		Total:     snapshot.Total.InexactFloat64(),
		Name:      details.Name,
		Email:     details.Email,
		Address:   details.Address,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	confirmation, err := s.client.PlaceOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		// The order went through; a lingering cart record self-heals on the
		// next clear or logout.
		s.logg.Warn(s.logg.WithField(ctx, "order", confirmation.ID), "checkout: could not clear cart after order")
	}
	s.logg.Info(s.logg.WithField(ctx, "order", confirmation.ID), "checkout: order placed")
	return confirmation, nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "all fields are required").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
