package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/supplier-service/internal/domain"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.HTTPStatus
}

// ── user repository stub ──

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*domain.User{}}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	if u.AvatarPath != nil {
		path := *u.AvatarPath
		clone.AvatarPath = &path
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return uniqueViolation()
		}
	}
	user.ID = uuid.NewString()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Username == user.Username {
			return uniqueViolation()
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneUser(user), nil
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

// ── supplier repository stub ──

type stubSupplierRepo struct {
	suppliers map[string]*domain.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: map[string]*domain.Supplier{}}
}

func cloneSupplier(s *domain.Supplier) *domain.Supplier {
	clone := *s
	return &clone
}

func (r *stubSupplierRepo) Create(_ context.Context, supplier *domain.Supplier) error {
	supplier.ID = uuid.NewString()
	r.suppliers[supplier.ID] = cloneSupplier(supplier)
	return nil
}

func (r *stubSupplierRepo) Update(_ context.Context, supplier *domain.Supplier) error {
	if _, ok := r.suppliers[supplier.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.suppliers[supplier.ID] = cloneSupplier(supplier)
	return nil
}

func (r *stubSupplierRepo) GetByID(_ context.Context, id string) (*domain.Supplier, error) {
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneSupplier(supplier), nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]*domain.Supplier, error) {
	suppliers := make([]*domain.Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		suppliers = append(suppliers, cloneSupplier(supplier))
	}
	return suppliers, nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.suppliers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.suppliers, id)
	return nil
}

// ── product repository stub ──

type stubProductRepo struct {
	products map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: map[string]*domain.Product{}}
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	if p.ImagePath != nil {
		path := *p.ImagePath
		clone.ImagePath = &path
	}
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = uuid.NewString()
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.products[product.ID] = cloneProduct(product)
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneProduct(product), nil
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	products := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, cloneProduct(product))
	}
	return products, nil
}

func (r *stubProductRepo) ListBySupplier(_ context.Context, supplierID string) ([]*domain.Product, error) {
	var products []*domain.Product
	for _, product := range r.products {
		if product.SupplierID == supplierID {
			products = append(products, cloneProduct(product))
		}
	}
	return products, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

// ── upload store stub ──

type fakeUploadStore struct {
	files   map[string][]byte
	removed []string
}

func newFakeUploadStore() *fakeUploadStore {
	return &fakeUploadStore{files: map[string][]byte{}}
}

func (s *fakeUploadStore) Save(name string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	s.files[name] = data
	return "/public/uploads/" + name, nil
}

func (s *fakeUploadStore) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

func makeFileHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}
