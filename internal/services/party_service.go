package services

import (
	"context"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"
)

// ClientService owns the client directory.
type ClientService struct {
	Store     UnitOfWork
	RequestID string
}

func normalizeClient(c *models.Client) error {
	c.FirstName = utils.NormalizeSpace(c.FirstName)
	c.LastName = utils.NormalizeSpace(c.LastName)
	c.Email = strings.ToLower(utils.TrimOrEmpty(c.Email))
	c.Phone = utils.TrimOrEmpty(c.Phone)
	c.FullName = models.ComposeFullName(c.FirstName, c.LastName)

	if c.FullName == "" {
		return domain.ValidationError{Field: "last_name", Msg: "first or last name is required"}
	}
	if c.Phone == "" {
		return domain.ValidationError{Field: "phone", Msg: "phone is required"}
	}
	if c.Email != "" && !utils.LooksLikeEmail(c.Email) {
		return domain.ValidationError{Field: "email", Msg: "email must contain @"}
	}
	if c.Sex != "" && c.Sex != models.SexMale && c.Sex != models.SexFemale {
		return domain.ValidationError{Field: "sex", Msg: "must be male or female"}
	}
	return nil
}

func (s ClientService) Create(ctx context.Context, c models.Client) (models.Client, error) {
	if err := normalizeClient(&c); err != nil {
		return models.Client{}, err
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Clients.Create(ctx, &c)
	})
	if err != nil {
		return models.Client{}, err
	}
	utils.LogEvent(s.RequestID, "clients", "create", "client created: "+c.FullName)
	return c, nil
}

func (s ClientService) Get(ctx context.Context, id int64) (models.Client, error) {
	var c models.Client
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		c, err = tx.Clients.Get(ctx, id)
		return err
	})
	return c, err
}

func (s ClientService) List(ctx context.Context, f domain.ListFilter) ([]models.Client, error) {
	var out []models.Client
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Clients.List(ctx, f)
		return err
	})
	return out, err
}

func (s ClientService) Update(ctx context.Context, c models.Client) (models.Client, error) {
	if err := normalizeClient(&c); err != nil {
		return models.Client{}, err
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Clients.Update(ctx, c)
	})
	return c, err
}

func (s ClientService) Delete(ctx context.Context, id int64) error {
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Clients.Delete(ctx, id)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "clients", "delete", "client deleted")
	}
	return err
}

// DestinationService owns the destination catalogue.
type DestinationService struct {
	Store     UnitOfWork
	RequestID string
}

func normalizeDestination(d *models.Destination) error {
	d.Name = utils.NormalizeSpace(d.Name)
	if d.Name == "" {
		return domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if d.Kind == "" {
		d.Kind = models.DestinationTouristic
	}
	switch d.Kind {
	case models.DestinationCultural, models.DestinationReligious, models.DestinationTouristic:
	default:
		return domain.ValidationError{Field: "kind", Msg: "must be cultural, religious or touristic"}
	}
	return nil
}

func (s DestinationService) Create(ctx context.Context, d models.Destination) (models.Destination, error) {
	if err := normalizeDestination(&d); err != nil {
		return models.Destination{}, err
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Destinations.Create(ctx, &d)
	})
	return d, err
}

func (s DestinationService) Get(ctx context.Context, id int64) (models.Destination, error) {
	var d models.Destination
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		d, err = tx.Destinations.Get(ctx, id)
		return err
	})
	return d, err
}

func (s DestinationService) List(ctx context.Context, f domain.ListFilter) ([]models.Destination, error) {
	var out []models.Destination
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Destinations.List(ctx, f)
		return err
	})
	return out, err
}

func (s DestinationService) Update(ctx context.Context, d models.Destination) (models.Destination, error) {
	if err := normalizeDestination(&d); err != nil {
		return models.Destination{}, err
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Destinations.Update(ctx, d)
	})
	return d, err
}

func (s DestinationService) Delete(ctx context.Context, id int64) error {
	return s.Store.Do(ctx, func(tx Tx) error {
		return tx.Destinations.Delete(ctx, id)
	})
}

// SupplierService owns the supplier directory used by purchases.
type SupplierService struct {
	Store     UnitOfWork
	RequestID string
}

func normalizeSupplier(sp *models.Supplier) error {
	sp.Name = utils.NormalizeSpace(sp.Name)
	sp.Email = strings.ToLower(utils.TrimOrEmpty(sp.Email))
	if sp.Name == "" {
		return domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if sp.Kind == "" {
		sp.Kind = models.SupplierOther
	}
	if !sp.Kind.Valid() {
		return domain.ValidationError{Field: "kind", Msg: "unknown supplier kind " + string(sp.Kind)}
	}
	if sp.Email != "" && !utils.LooksLikeEmail(sp.Email) {
		return domain.ValidationError{Field: "email", Msg: "email must contain @"}
	}
	return nil
}

func (s SupplierService) Create(ctx context.Context, sp models.Supplier) (models.Supplier, error) {
	if err := normalizeSupplier(&sp); err != nil {
		return models.Supplier{}, err
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Suppliers.Create(ctx, &sp)
	})
	return sp, err
}

func (s SupplierService) Get(ctx context.Context, id int64) (models.Supplier, error) {
	var sp models.Supplier
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		sp, err = tx.Suppliers.Get(ctx, id)
		return err
	})
	return sp, err
}

func (s SupplierService) List(ctx context.Context, f domain.ListFilter) ([]models.Supplier, error) {
	var out []models.Supplier
	err := s.Store.Do(ctx, func(tx Tx) (err error) {
		out, err = tx.Suppliers.List(ctx, f)
		return err
	})
	return out, err
}

func (s SupplierService) Update(ctx context.Context, sp models.Supplier) (models.Supplier, error) {
	if err := normalizeSupplier(&sp); err != nil {
		return models.Supplier{}, err
	}
	err := s.Store.Do(ctx, func(tx Tx) error {
		return tx.Suppliers.Update(ctx, sp)
	})
	return sp, err
}

func (s SupplierService) Delete(ctx context.Context, id int64) error {
	return s.Store.Do(ctx, func(tx Tx) error {
		return tx.Suppliers.Delete(ctx, id)
	})
}
