package main

import (
	"context"
	"log"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/models"
	"storefront/internal/validation"
)

// seed loads the optional YAML seed file into an empty database. Existing
// responses and products are never touched; users are created only if their
// email is not registered yet.
func seed(ctx context.Context, database *db.DB) error {
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return err
	}
	if yamlCfg == nil {
		return nil
	}

	n, err := database.SeedAutomatedResponses(ctx, seedResponses(yamlCfg))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Seeded %d automated responses", n)
	}

	n, err = database.SeedProducts(ctx, seedProducts(yamlCfg))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Seeded %d products", n)
	}

	for _, u := range yamlCfg.Users {
		if u.Password == "" {
			log.Printf("Warning: skipping seed user %s without a password", u.Email)
			continue
		}
		if !models.IsValidRole(u.Role) {
			log.Printf("Warning: skipping seed user %s with unknown role %q", u.Email, u.Role)
			continue
		}
		created, err := database.EnsureUser(ctx, &models.User{Name: u.Name, Email: u.Email, Role: u.Role}, u.Password)
		if err != nil {
			return err
		}
		if created {
			log.Printf("Created %s account %s", u.Role, u.Email)
		}
	}

	return nil
}

// seedResponses maps the YAML responses in file order. Only the first default
// keeps its flag.
func seedResponses(c *config.YAMLConfig) []models.AutomatedResponse {
	def := c.DefaultResponse()

	responses := make([]models.AutomatedResponse, 0, len(c.Responses))
	for i := range c.Responses {
		r := &c.Responses[i]
		if r.Text == "" {
			continue
		}
		responses = append(responses, models.AutomatedResponse{
			Keywords:     validation.NormalizeKeywords(r.Keywords),
			ResponseText: r.Text,
			IsDefault:    r == def,
		})
	}
	return responses
}

func seedProducts(c *config.YAMLConfig) []models.Product {
	products := make([]models.Product, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, models.Product{
			Name:           p.Name,
			Description:    p.Description,
			Price:          p.Price,
			Specifications: p.Specifications,
		})
	}
	return products
}
