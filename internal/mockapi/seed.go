package mockapi

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/municollect/internal/client/models"
)

// Demo accounts created by Seed. All share SeedPassword.
const (
	SeedPassword      = "password123"
	SeedResidentEmail = "resident@municollect.test"
	SeedStaffEmail    = "staff@municollect.test"
	SeedAdminEmail    = "admin@municollect.test"
)

var seedMunicipalities = []models.MunicipalityRequest{
	{Name: "Bangkok Metropolitan", Code: "BKK", PaymentConfig: map[string]any{"wasteManagementFee": 80, "waterBillEnabled": true}},
	{Name: "Chiang Mai City", Code: "CNX", PaymentConfig: map[string]any{"wasteManagementFee": 60, "waterBillEnabled": false}},
	{Name: "Phuket City", Code: "HKT", PaymentConfig: map[string]any{"qrCodeExpirationMinutes": 30}},
}

// Seed fills an empty service with demo municipalities and one account per
// role. The resident and staff accounts are linked to the first municipality.
func (s *Service) Seed(ctx context.Context) error {
	var first string
	for _, req := range seedMunicipalities {
		m, err := s.CreateMunicipality(ctx, Caller{Role: models.RoleAdmin}, req)
		if err != nil {
			return fmt.Errorf("seed municipality %s: %w", req.Code, err)
		}
		if first == "" {
			first = m.ID
		}
	}

	accounts := []struct {
		email, first, last string
		role               models.UserRole
	}{
		{SeedResidentEmail, "Somchai", "Jaidee", models.RoleResident},
		{SeedStaffEmail, "Malee", "Srisuk", models.RoleMunicipalStaff},
		{SeedAdminEmail, "Admin", "User", models.RoleAdmin},
	}
	for _, a := range accounts {
		var links []string
		if a.role != models.RoleAdmin {
			links = []string{first}
		}
		req := models.RegisterRequest{Email: a.email, Password: SeedPassword, FirstName: a.first, LastName: a.last}
		if _, err := s.createUser(ctx, req, a.role, links); err != nil {
			return fmt.Errorf("seed user %s: %w", a.email, err)
		}
	}

	s.log.Info(ctx, "demo data seeded", "municipalities", len(seedMunicipalities), "users", len(accounts))
	return nil
}
