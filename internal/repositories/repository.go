package repositories

import (
	"turnovers/internal/database"
)

type Repository struct {
	Turnover TurnoverRepository
}

func New(db database.DB) Repository {
	return Repository{
		Turnover: NewTurnoverRepository(db.Cache.Turnover),
	}
}
