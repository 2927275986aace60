package services

import (
	"context"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientNormalization(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := ClientService{Store: store}

	c, err := svc.Create(ctx, models.Client{FirstName: "  Amel ", LastName: "Ben  Ali", Phone: " 20 000 000 ", Email: "Amel@Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, "Amel Ben Ali", c.FullName)
	assert.Equal(t, "amel@example.com", c.Email)
	assert.Equal(t, "20 000 000", c.Phone)

	cases := map[string]models.Client{
		"no name":   {Phone: "1"},
		"no phone":  {FirstName: "A"},
		"bad email": {FirstName: "A", Phone: "1", Email: "amel.example.com"},
		"bad sex":   {FirstName: "A", Phone: "1", Sex: "x"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestClientDeleteRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := seedClient(t, store, "")
	mustReservation(t, newReservations(store, nil), ReservationInput{ClientID: c.ID})

	err := ClientService{Store: store}.Delete(ctx, c.ID)
	assert.True(t, domain.IsConflict(err))

	other := seedClient(t, store, "")
	require.NoError(t, ClientService{Store: store}.Delete(ctx, other.ID))
	_, err = ClientService{Store: store}.Get(ctx, other.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestDestinationAndSupplierDefaults(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	d, err := DestinationService{Store: store}.Create(ctx, models.Destination{Name: "Kairouan"})
	require.NoError(t, err)
	assert.Equal(t, models.DestinationTouristic, d.Kind)
	_, err = DestinationService{Store: store}.Create(ctx, models.Destination{Name: "Nowhere", Kind: "imaginary"})
	assert.True(t, domain.IsValidation(err))

	sp, err := SupplierService{Store: store}.Create(ctx, models.Supplier{Name: "Atlas Cars"})
	require.NoError(t, err)
	assert.Equal(t, models.SupplierOther, sp.Kind)
	_, err = SupplierService{Store: store}.Create(ctx, models.Supplier{Name: "X", Email: "nope"})
	assert.True(t, domain.IsValidation(err))
	_, err = SupplierService{Store: store}.Create(ctx, models.Supplier{})
	assert.True(t, domain.IsValidation(err))
}
