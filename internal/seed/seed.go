package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appRepos "github.com/kerem/campusact/internal/app/repositories"
)

// CreateDefaultData seeds the semester calendar when the table is empty, so
// a fresh install has something to attach offerings to.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	semesterRepo := appRepos.NewSemesterRepository(dbPool)

	existing, err := semesterRepo.GetAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing semesters")
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	lgr.Info().Msg("Seeding default semesters...")

	year := time.Now().Year()
	semesters := []struct {
		code string
		name string
	}{
		{code: fmt.Sprintf("%d-FALL", year), name: fmt.Sprintf("Fall %d", year)},
		{code: fmt.Sprintf("%d-SPRING", year+1), name: fmt.Sprintf("Spring %d", year+1)},
	}

	for _, s := range semesters {
		if err := semesterRepo.Create(ctx, s.code, s.name); err != nil {
			lgr.Error().Err(err).Str("semester", s.code).Msg("Error seeding semester")
			return err
		}
	}

	lgr.Info().Int("count", len(semesters)).Msg("Default semesters created")
	return nil
}
