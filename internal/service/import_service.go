package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"go-bizman-ws/internal/importer"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/sheet"
	"go-bizman-ws/internal/tenant"
	"go-bizman-ws/internal/ws"
	"go-bizman-ws/pkg/logger"
)

// Entity names shared with the importer so a staged preview always commits
// under the same name it was normalized with.
const (
	ImportEntityProduct  = importer.EntityProducts
	ImportEntityCustomer = importer.EntityCustomers
)

// ImportResult summarizes one committed import.
type ImportResult struct {
	Entity   string `json:"entity"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Chunks   int    `json:"chunks"`
}

// ImportService stages spreadsheet rows into normalized records and commits
// them in bounded chunks. Each chunk is one transaction; a failure mid-run
// keeps the chunks already committed.
type ImportService interface {
	PreviewFile(tc tenant.Context, filename string, data []byte, entity string) (*importer.Preview, error)
	PreviewLink(ctx context.Context, tc tenant.Context, link, entity string) (*importer.Preview, error)
	Commit(tc tenant.Context, preview *importer.Preview) (*ImportResult, error)
}

type importService struct {
	db        *gorm.DB
	products  repository.ProductRepository
	customers repository.CustomerRepository
	audits    repository.AuditLogRepository
	fetcher   *sheet.Fetcher
	hub       *ws.Hub
}

func NewImportService(
	db *gorm.DB,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	audits repository.AuditLogRepository,
	fetcher *sheet.Fetcher,
	hub *ws.Hub,
) ImportService {
	return &importService{
		db:        db,
		products:  products,
		customers: customers,
		audits:    audits,
		fetcher:   fetcher,
		hub:       hub,
	}
}

func (s *importService) PreviewFile(tc tenant.Context, filename string, data []byte, entity string) (*importer.Preview, error) {
	rows, err := sheet.ParseFile(filename, data)
	if err != nil {
		return nil, err
	}
	return importer.Normalize(rows, entity)
}

func (s *importService) PreviewLink(ctx context.Context, tc tenant.Context, link, entity string) (*importer.Preview, error) {
	rows, err := s.fetcher.FetchLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return importer.Normalize(rows, entity)
}

func (s *importService) Commit(tc tenant.Context, preview *importer.Preview) (*ImportResult, error) {
	switch preview.Entity {
	case ImportEntityProduct:
		return s.commitProducts(tc, preview)
	case ImportEntityCustomer:
		return s.commitCustomers(tc, preview)
	default:
		return nil, fmt.Errorf("unsupported import entity %q", preview.Entity)
	}
}

func chunkRecords(records []importer.Record) [][]importer.Record {
	var chunks [][]importer.Record
	for len(records) > 0 {
		n := importer.ChunkSize
		if len(records) < n {
			n = len(records)
		}
		chunks = append(chunks, records[:n])
		records = records[n:]
	}
	return chunks
}

func (s *importService) commitProducts(tc tenant.Context, preview *importer.Preview) (*ImportResult, error) {
	result := &ImportResult{Entity: preview.Entity, Skipped: preview.Skipped}
	log := logger.WithModule("import").WithField("entity", preview.Entity)

	for _, chunk := range chunkRecords(preview.Records) {
		// Matching re-reads the catalog per chunk so earlier chunks'
		// inserts dedupe later rows of the same run.
		existing, err := s.products.FindAll(tc)
		if err != nil {
			return result, err
		}
		plan := importer.BuildProductPlan(chunk, existing)

		err = s.db.Transaction(func(tx *gorm.DB) error {
			for i := range plan.Inserts {
				p := plan.Inserts[i]
				p.OwnerID = tc.OwnerID
				p.CreatedBy = tc.UserID
				p.UpdatedBy = tc.UserID
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
			}
			for _, u := range plan.Updates {
				if err := s.products.UpdateFields(tx, tc, u.ID, u.Fields); err != nil {
					return err
				}
			}
			return s.audits.Create(tx, tc, "import.products", map[string]interface{}{
				"inserted": len(plan.Inserts),
				"updated":  len(plan.Updates),
			})
		})
		if err != nil {
			log.WithError(err).WithField("chunk", result.Chunks).Error("chunk commit failed")
			return result, err
		}

		result.Inserted += len(plan.Inserts)
		result.Updated += len(plan.Updates)
		result.Chunks++
	}

	log.WithField("inserted", result.Inserted).WithField("updated", result.Updated).Info("import committed")
	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":     "import_completed",
		"entity":   preview.Entity,
		"inserted": result.Inserted,
		"updated":  result.Updated,
	})
	return result, nil
}

func (s *importService) commitCustomers(tc tenant.Context, preview *importer.Preview) (*ImportResult, error) {
	result := &ImportResult{Entity: preview.Entity, Skipped: preview.Skipped}
	log := logger.WithModule("import").WithField("entity", preview.Entity)

	for _, chunk := range chunkRecords(preview.Records) {
		existing, err := s.customers.FindAll(tc)
		if err != nil {
			return result, err
		}
		plan := importer.BuildCustomerPlan(chunk, existing)

		err = s.db.Transaction(func(tx *gorm.DB) error {
			for i := range plan.Inserts {
				c := plan.Inserts[i]
				c.OwnerID = tc.OwnerID
				c.CreatedBy = tc.UserID
				c.UpdatedBy = tc.UserID
				if err := tx.Create(&c).Error; err != nil {
					return err
				}
			}
			for _, u := range plan.Updates {
				if err := s.customers.UpdateFields(tx, tc, u.ID, u.Fields); err != nil {
					return err
				}
			}
			return s.audits.Create(tx, tc, "import.customers", map[string]interface{}{
				"inserted": len(plan.Inserts),
				"updated":  len(plan.Updates),
			})
		})
		if err != nil {
			log.WithError(err).WithField("chunk", result.Chunks).Error("chunk commit failed")
			return result, err
		}

		result.Inserted += len(plan.Inserts)
		result.Updated += len(plan.Updates)
		result.Chunks++
	}

	log.WithField("inserted", result.Inserted).WithField("updated", result.Updated).Info("import committed")
	s.hub.Publish(tc.OwnerID, map[string]interface{}{
		"type":     "import_completed",
		"entity":   preview.Entity,
		"inserted": result.Inserted,
		"updated":  result.Updated,
	})
	return result, nil
}
