package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	repo "github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/metrics"
)

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// ImageFile is one uploaded file, opened lazily.
type ImageFile struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// ProductService serves the catalog. Cache, Search and Images are optional.
type ProductService struct {
	Repo    repo.ProductRepository
	Cache   repo.ProductCache
	Search  repo.ProductSearch
	Images  ImageStore
	Metrics *metrics.Manager
	Logger  *logrus.Logger
}

func NewProductService(r repo.ProductRepository, logger *logrus.Logger) *ProductService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &ProductService{Repo: r, Logger: logger}
}

func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	return s.Repo.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	if !entity.ValidID(id) {
		return nil, ErrInvalidID
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Resolve loads products by id through the cache. Missing ids are absent from the result.
func (s *ProductService) Resolve(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	out := make(map[string]entity.Product, len(ids))
	missing := ids
	if s.Cache != nil && len(ids) > 0 {
		hits, miss, err := s.Cache.GetMany(ctx, ids)
		if err != nil {
			s.sideChannelFailed("cache", err)
		} else {
			out, missing = hits, miss
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := s.Repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range loaded {
		out[p.ID] = p
	}
	if s.Cache != nil && len(loaded) > 0 {
		if err := s.Cache.SetMany(ctx, loaded); err != nil {
			s.sideChannelFailed("cache", err)
		}
	}
	return out, nil
}

func (s *ProductService) Create(ctx context.Context, p *entity.Product) error {
	if missing := p.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidProduct, strings.Join(missing, ", "))
	}
	p.ID = ""
	if err := s.Repo.Create(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("name", p.Name).Error("create product failed")
		return err
	}
	if s.Search != nil {
		if err := s.Search.Index(ctx, p); err != nil {
			s.sideChannelFailed("search", err)
		}
	}
	s.Logger.WithField("product_id", p.ID).Info("product created")
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*entity.Product, error) {
	if !entity.ValidID(id) {
		return nil, ErrInvalidID
	}
	p, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			s.sideChannelFailed("search", err)
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, id); err != nil {
			s.sideChannelFailed("cache", err)
		}
	}
	s.Logger.WithField("product_id", id).Info("product deleted")
	return p, nil
}

// SearchProducts queries the index, falling back to filtering the full list.
func (s *ProductService) SearchProducts(ctx context.Context, q repo.ProductQuery) ([]entity.Product, error) {
	if s.Search != nil {
		ids, err := s.Search.Search(ctx, q)
		if err == nil {
			found, rerr := s.Resolve(ctx, ids)
			if rerr != nil {
				return nil, rerr
			}
			out := make([]entity.Product, 0, len(ids))
			for _, id := range ids {
				if p, ok := found[id]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		}
		s.sideChannelFailed("search", err)
	}

	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0)
	for i := range all {
		if matchesQuery(&all[i], q) {
			out = append(out, all[i])
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchesQuery(p *entity.Product, q repo.ProductQuery) bool {
	if !p.Matches(q.Text) {
		return false
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.Size != "" {
		for _, sz := range p.Sizes {
			if strings.EqualFold(sz, q.Size) {
				return true
			}
		}
		return false
	}
	return true
}

// UploadImages stores each file and returns the URLs that succeeded.
// Failures are logged and skipped, so the result may be empty.
func (s *ProductService) UploadImages(ctx context.Context, files []ImageFile) []string {
	urls := make([]string, 0, len(files))
	if s.Images == nil {
		if len(files) > 0 {
			s.Logger.Warn("image upload requested but storage is not configured")
		}
		return urls
	}
	for _, f := range files {
		url, err := s.uploadOne(ctx, f)
		if err != nil {
			s.sideChannelFailed("storage", err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func (s *ProductService) uploadOne(ctx context.Context, f ImageFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Filename, err)
	}
	defer func() { _ = rc.Close() }()
	return s.Images.Upload(ctx, f.Filename, f.ContentType, rc)
}

func (s *ProductService) sideChannelFailed(channel string, err error) {
	s.Metrics.SideChannelError(channel)
	s.Logger.WithError(err).WithField("channel", channel).Warn("best-effort dependency failed")
}
