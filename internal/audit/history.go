package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/samarthumrao/BrandPulse-AI/internal/cache"
	"github.com/samarthumrao/BrandPulse-AI/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrArchiveDisabled = errors.New("audit archive is not configured")
	ErrNoAudits        = errors.New("no archived audits for brand")
	ErrInvalidBrand    = errors.New("brand name has no usable characters")
)

const (
	archiveRoot       = "audits"
	archiveTimeLayout = "2006-01-02-15-04-05"
)

// ArchivedAudit is one stored result in a brand's history
type ArchivedAudit struct {
	Name    string    `json:"name"`
	TakenAt time.Time `json:"taken_at"`
}

// ArchiveName is the storage path of an audit taken at ts
func ArchiveName(brandName string, ts time.Time) string {
	slug := cache.Slug(brandName)
	if slug == "" {
		slug = "unnamed"
	}
	return fmt.Sprintf("%s/%s/%s.json", archiveRoot, slug, ts.UTC().Format(archiveTimeLayout))
}

func archivePrefix(brandName string) (string, error) {
	slug := cache.Slug(strings.TrimSpace(brandName))
	if slug == "" {
		return "", ErrInvalidBrand
	}
	return archiveRoot + "/" + slug + "/", nil
}

// History lists the archived audits of brandName, oldest first
func (s *Service) History(ctx context.Context, brandName string) ([]ArchivedAudit, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	prefix, err := archivePrefix(brandName)
	if err != nil {
		return nil, err
	}

	names, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	sort.Strings(names)

	audits := make([]ArchivedAudit, 0, len(names))
	for _, name := range names {
		audit := ArchivedAudit{Name: name}
		stamp := strings.TrimSuffix(path.Base(name), ".json")
		if ts, err := time.Parse(archiveTimeLayout, stamp); err == nil {
			audit.TakenAt = ts
		} else {
			logrus.Debugf("Archived audit %s has no timestamp in its name", name)
		}
		audits = append(audits, audit)
	}

	return audits, nil
}

// Latest loads the most recent archived result for brandName
func (s *Service) Latest(ctx context.Context, brandName string) (*models.AnalysisResult, ArchivedAudit, error) {
	audits, err := s.History(ctx, brandName)
	if err != nil {
		return nil, ArchivedAudit{}, err
	}
	if len(audits) == 0 {
		return nil, ArchivedAudit{}, ErrNoAudits
	}

	latest := audits[len(audits)-1]
	data, err := s.storage.Retrieve(ctx, latest.Name)
	if err != nil {
		return nil, latest, fmt.Errorf("failed to load %s: %w", latest.Name, err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, latest, fmt.Errorf("archived audit %s is unreadable: %w", latest.Name, err)
	}

	return &result, latest, nil
}

// PurgeHistory deletes every archived audit of brandName and returns how many were removed
func (s *Service) PurgeHistory(ctx context.Context, brandName string) (int, error) {
	audits, err := s.History(ctx, brandName)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, audit := range audits {
		if err := s.storage.Delete(ctx, audit.Name); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", audit.Name, err)
		}
		deleted++
	}

	logrus.Infof("Purged %d archived audits for %q", deleted, brandName)
	return deleted, nil
}

// prune keeps only the newest ArchiveRetention audits of brandName
func (s *Service) prune(ctx context.Context, brandName string) {
	keep := s.config.ArchiveRetention
	if keep <= 0 {
		return
	}

	audits, err := s.History(ctx, brandName)
	if err != nil {
		logrus.Warnf("Skipping archive retention for %q: %v", brandName, err)
		return
	}

	for i := 0; i < len(audits)-keep; i++ {
		if err := s.storage.Delete(ctx, audits[i].Name); err != nil {
			logrus.Warnf("Failed to prune %s: %v", audits[i].Name, err)
		}
	}
}
