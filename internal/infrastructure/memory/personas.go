package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

var (
	_ repository.ClienteRepository = (*ClienteRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// ClienteRepo clientes en memoria.
type ClienteRepo struct {
	s *Store
}

// NewClienteRepository construye el repositorio.
func NewClienteRepository(s *Store) *ClienteRepo { return &ClienteRepo{s: s} }

func (r *ClienteRepo) Create(_ context.Context, c *entity.Cliente) error {
	return r.s.write(nil, func(d *data) error {
		for _, x := range d.clientes {
			if x.Documento == c.Documento {
				return domain.ErrDuplicate
			}
		}
		d.clientes[c.ID] = *c
		return nil
	})
}

func (r *ClienteRepo) GetByID(_ context.Context, id string) (*entity.Cliente, error) {
	var out *entity.Cliente
	r.s.read(nil, func(d *data) {
		if c, ok := d.clientes[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *ClienteRepo) List(_ context.Context, limit, offset int) ([]*entity.Cliente, error) {
	var list []*entity.Cliente
	r.s.read(nil, func(d *data) {
		for _, c := range d.clientes {
			c := c
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

// UserRepo empleados en memoria.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.write(nil, func(d *data) error {
		for _, x := range d.users {
			if strings.EqualFold(x.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.read(nil, func(d *data) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.s.read(nil, func(d *data) {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}
