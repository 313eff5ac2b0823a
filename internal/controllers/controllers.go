package controllers

import (
	"turnovers/config"
	"turnovers/internal/database"
	"turnovers/internal/repositories"
	"turnovers/internal/services"

	turnoverController "turnovers/internal/controllers/turnovers"
)

type Controllers struct {
	Turnover turnoverController.TurnoverControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) (Controllers, error) {
	location, err := config.Location()
	if err != nil {
		return Controllers{}, err
	}

	return Controllers{
		Turnover: turnoverController.New(repos, services, db, location),
	}, nil
}
