package categories

import (
	"context"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"emiscal_backend/internals/features/calendar/dto"
	"emiscal_backend/internals/features/calendar/repository"
	"emiscal_backend/internals/features/calendar/service"
	helper "emiscal_backend/internals/helpers"
)

// SeedCategoriesFromJSON inserts every category in filePath that does not
// exist yet. Names are matched case-insensitively, so re-running is safe.
func SeedCategoriesFromJSON(ctx context.Context, svc *service.CategoryService, filePath string) (int, error) {
	log.Println("[SEED] reading", filePath)
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, errors.Wrap(err, "read categories seed")
	}
	var seeds []dto.CreateCategoryRequest
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return 0, errors.Wrap(err, "decode categories seed")
	}

	inserted := 0
	for _, req := range seeds {
		req.Normalize()
		if err := req.Validate(helper.Validate); err != nil {
			return inserted, errors.Wrapf(err, "category %q", req.Name)
		}
		err := svc.Create(ctx, req.ToModel())
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			log.Printf("[SEED] category %q exists, skipped", req.Name)
		case err != nil:
			return inserted, errors.Wrapf(err, "insert category %q", req.Name)
		default:
			inserted++
			log.Printf("[SEED] category %q inserted", req.Name)
		}
	}
	return inserted, nil
}
