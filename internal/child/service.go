package child

import (
	"context"
	"errors"
	"fmt"
	"siat-api/internal/apperr"
	"siat-api/internal/attachment"
	"siat-api/internal/metrics"
	"siat-api/internal/util"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListCap bounds List.
const ListCap = 1000

var (
	addressColumns  = []string{"uf", "city", "neighborhood", "street", "number", "updated_at"}
	guardianColumns = []string{"name", "birth_date", "occupation", "marital_status", "gender", "phone", "email", "notes", "updated_at"}
)

type ChildService struct {
	DB          *gorm.DB
	Attachments attachment.Store
	Unlinkers   []ChildUnlinker
	Metrics     *metrics.Metrics
}

// stagePhotos stages both photos concurrently. Either result may be nil.
func (s *ChildService) stagePhotos(ctx context.Context, childPhoto, guardianPhoto *Upload) (attachment.Pending, attachment.Pending, error) {
	uploads := []*Upload{childPhoto, guardianPhoto}
	for _, u := range uploads {
		if u != nil && u.Content != nil && s.Attachments == nil {
			return nil, nil, apperr.IO("photo uploads are not configured", nil)
		}
	}

	var staged [2]attachment.Pending
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range uploads {
		if u == nil || u.Content == nil {
			continue
		}
		g.Go(func() error {
			p, err := s.Attachments.Stage(gctx, u.Content, u.Filename)
			if err != nil {
				return err
			}
			staged[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = attachment.DiscardAll(context.WithoutCancel(ctx), staged[:]...)
		return nil, nil, err
	}
	return staged[0], staged[1], nil
}

// finish discards staged photos on failure and records metrics.
func (s *ChildService) finish(ctx context.Context, op string, start time.Time, err error, pending ...attachment.Pending) error {
	s.Metrics.ObserveUnitOfWork("child."+op, start)
	s.Metrics.ObserveRegistration(op, err)
	if err != nil {
		_ = attachment.DiscardAll(context.WithoutCancel(ctx), pending...)
		if apperr.KindOf(err) != apperr.KindUnknown {
			return err
		}
		return apperr.Persistence("could not save registration", err)
	}

	committed := 0
	for _, p := range pending {
		if p != nil {
			committed++
		}
	}
	if s.Attachments != nil {
		s.Metrics.AddAttachments(s.Attachments.Backend(), committed)
	}
	return nil
}

func (s *ChildService) Create(ctx context.Context, in RegistrationInput, childPhoto, guardianPhoto *Upload) (uint, error) {
	child, address, guardian, err := build(in)
	if err != nil {
		return 0, err
	}

	childPending, guardianPending, err := s.stagePhotos(ctx, childPhoto, guardianPhoto)
	if err != nil {
		return 0, err
	}
	if childPending != nil {
		ref := childPending.Ref()
		child.PhotoRef = &ref
	}
	if guardianPending != nil {
		ref := guardianPending.Ref()
		guardian.PhotoRef = &ref
	}

	start := time.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&child).Error; err != nil {
			return err
		}
		address.ChildID = child.ID
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
		guardian.ChildID = child.ID
		if err := tx.Create(&guardian).Error; err != nil {
			return err
		}
		return attachment.CommitAll(ctx, childPending, guardianPending)
	})
	if err := s.finish(ctx, "create", start, err, childPending, guardianPending); err != nil {
		return 0, err
	}
	return child.ID, nil
}

// Update rewrites the aggregate. Address and guardian rows are upserted on
// child_id; photo columns change only when a new photo is supplied.
func (s *ChildService) Update(ctx context.Context, id uint, in RegistrationInput, childPhoto, guardianPhoto *Upload) (uint, error) {
	child, address, guardian, err := build(in)
	if err != nil {
		return 0, err
	}

	childPending, guardianPending, err := s.stagePhotos(ctx, childPhoto, guardianPhoto)
	if err != nil {
		return 0, err
	}

	childUpdates := map[string]interface{}{
		"name":        child.Name,
		"birth_date":  child.BirthDate,
		"cpf":         child.CPF,
		"gender":      child.Gender,
		"comorbidity": child.Comorbidity,
		"education":   child.Education,
		"status":      child.Status,
		"notes":       child.Notes,
	}
	if childPending != nil {
		childUpdates["photo_ref"] = childPending.Ref()
	}

	guardianUpdate := guardianColumns
	if guardianPending != nil {
		ref := guardianPending.Ref()
		guardian.PhotoRef = &ref
		guardianUpdate = append(append([]string{}, guardianColumns...), "photo_ref")
	}

	start := time.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Child{}).Where("id = ?", id).Updates(childUpdates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("child")
		}

		address.ChildID = id
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "child_id"}},
			DoUpdates: clause.AssignmentColumns(addressColumns),
		}).Create(&address).Error; err != nil {
			return err
		}

		guardian.ChildID = id
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "child_id"}},
			DoUpdates: clause.AssignmentColumns(guardianUpdate),
		}).Create(&guardian).Error; err != nil {
			return err
		}

		return attachment.CommitAll(ctx, childPending, guardianPending)
	})
	if err := s.finish(ctx, "update", start, err, childPending, guardianPending); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ChildService) Get(ctx context.Context, id uint) (Registration, error) {
	db := s.DB.WithContext(ctx)

	var reg Registration
	if err := db.First(&reg.Child, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Registration{}, apperr.NotFound("child")
		}
		return Registration{}, apperr.Persistence("could not load child", err)
	}

	var address Address
	switch err := db.Where("child_id = ?", id).Take(&address).Error; {
	case err == nil:
		reg.Address = &address
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Registration{}, apperr.Persistence("could not load address", err)
	}

	var guardian Guardian
	switch err := db.Where("child_id = ?", id).Take(&guardian).Error; {
	case err == nil:
		reg.Guardian = &guardian
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Registration{}, apperr.Persistence("could not load guardian", err)
	}

	return reg, nil
}

// List returns registration summaries, newest first.
func (s *ChildService) List(ctx context.Context) ([]Summary, error) {
	var rows []Child
	if err := s.DB.WithContext(ctx).
		Select("id", "name", "status", "photo_ref", "created_at").
		Order("created_at DESC").
		Order("id DESC").
		Limit(ListCap).
		Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("could not list children", err)
	}

	out := make([]Summary, 0, len(rows))
	for _, c := range rows {
		out = append(out, Summary{
			ID:           c.ID,
			Name:         c.Name,
			RegisteredOn: util.FormatDay(c.CreatedAt.UTC()),
			Status:       c.Status,
			PhotoRef:     c.PhotoRef,
		})
	}
	return out, nil
}

// Delete removes the child with its address and guardian, and unlinks
// every registered dependent, in one transaction.
func (s *ChildService) Delete(ctx context.Context, id uint) error {
	start := time.Now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Child{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("child")
		}
		if err := tx.Where("child_id = ?", id).Delete(&Address{}).Error; err != nil {
			return err
		}
		if err := tx.Where("child_id = ?", id).Delete(&Guardian{}).Error; err != nil {
			return err
		}
		for _, u := range s.Unlinkers {
			if err := u.UnlinkChild(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	return s.finish(ctx, "delete", start, err)
}

// Export renders List as a spreadsheet.
func (s *ChildService) Export(ctx context.Context) ([]byte, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Cadastros"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, apperr.IO("could not build export", err)
	}

	header := []interface{}{
		excelize.Cell{Value: "id", StyleID: headerStyle},
		excelize.Cell{Value: "nome", StyleID: headerStyle},
		excelize.Cell{Value: "data_cadastro", StyleID: headerStyle},
		excelize.Cell{Value: "status", StyleID: headerStyle},
		excelize.Cell{Value: "foto_crianca", StyleID: headerStyle},
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, apperr.IO("could not build export", err)
	}

	for i, item := range items {
		photo := ""
		if item.PhotoRef != nil {
			photo = *item.PhotoRef
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{item.ID, item.Name, item.RegisteredOn, item.Status, photo}); err != nil {
			return nil, apperr.IO("could not build export", err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, apperr.IO("could not build export", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.IO("could not build export", err)
	}
	return buf.Bytes(), nil
}

func exportFilename(now time.Time) string {
	return fmt.Sprintf("cadastros_%s.xlsx", now.Format("20060102_150405"))
}
