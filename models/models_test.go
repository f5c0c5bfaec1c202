package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotKind(t *testing.T) {
	slot, err := ParseSlotKind("  INTERIOR-TRIM ")
	require.NoError(t, err)
	assert.Equal(t, SlotInteriorTrim, slot)
	assert.True(t, slot.IsInterior())
	assert.False(t, slot.IsExterior())

	_, err = ParseSlotKind("roof-box")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Len(t, AllSlots(), 21)
}

func TestConfigurationTransitions(t *testing.T) {
	tests := []struct {
		from, to ConfigurationStatus
		want     bool
	}{
		{ConfigurationSaved, ConfigurationPending, true},
		{ConfigurationSaved, ConfigurationCancelled, true},
		{ConfigurationSaved, ConfigurationConfirmed, false},
		{ConfigurationPending, ConfigurationConfirmed, true},
		{ConfigurationPending, ConfigurationCancelled, true},
		{ConfigurationPending, ConfigurationSaved, false},
		{ConfigurationConfirmed, ConfigurationCancelled, false},
		{ConfigurationCancelled, ConfigurationSaved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, ConfigurationConfirmed.IsTerminal())
	assert.False(t, ConfigurationPending.IsTerminal())
}

func TestOrderTransitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransitionTo(OrderDelivered))
	assert.True(t, OrderShipped.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderShipped.CanTransitionTo(OrderPending))
	assert.False(t, OrderDelivered.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderCancelled.CanTransitionTo(OrderProcessing))
	assert.False(t, OrderPending.CanTransitionTo(OrderPending))

	assert.True(t, OrderPaymentFailed.CanTransitionTo(OrderPaymentPending))
	assert.False(t, OrderPaymentPaid.CanTransitionTo(OrderPaymentFailed))

	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderShipped, status)
	method, err := ParseOrderPaymentMethod("STRIPE")
	require.NoError(t, err)
	assert.Equal(t, OrderPaymentStripe, method)
}

func TestParseBookingCommand(t *testing.T) {
	cmd, err := ParseBookingCommand("bookingStatus", "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, SetBookingStatus{Status: BookingConfirmed}, cmd)

	cmd, err = ParseBookingCommand("paymentMethod", "cod")
	require.NoError(t, err)
	assert.Equal(t, SetPaymentMethod{Method: PaymentCOD}, cmd)

	cmd, err = ParseBookingCommand("paymentStatus", "paid")
	require.NoError(t, err)
	assert.Equal(t, SetPaymentStatus{Status: PaymentPaid}, cmd)

	for _, tt := range []struct{ field, value string }{
		{"totalAmount", "0"},
		{"customerId", "x"},
		{"bookingStatus", "shipped"},
		{"paymentMethod", "cheque"},
		{"paymentStatus", "refunded"},
	} {
		_, err := ParseBookingCommand(tt.field, tt.value)
		assert.ErrorIs(t, err, ErrValidation, "%s=%s", tt.field, tt.value)
	}
}

func TestBookingCommandsKeepStateOnError(t *testing.T) {
	b := &Booking{BookingStatus: BookingConfirmed}
	err := SetBookingStatus{Status: BookingCancelled}.Apply(b)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, BookingConfirmed, b.BookingStatus)

	err = SetPaymentStatus{Status: PaymentPaid}.Apply(b)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Nil(t, b.PaymentStatus)
}
