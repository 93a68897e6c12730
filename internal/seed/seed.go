// Package seed generates and loads development accounts: one administrator,
// the heads of every RW and RT, and a population of residents.
package seed

import (
	"context"   // Query cancellation
	"fmt"       // NIK and label formatting
	"math/rand" // Deterministic pseudo-random source

	"citizen_registry/internal/domain" // Domain models

	"github.com/pkg/errors"      // Error wrapping
	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

const (
	RWCount           = 12  // Neighborhood units
	RTPerRW           = 10  // Blocks headed per unit
	DefaultResidents  = 100 // Residents generated by default
	maxRTsPerRW       = 10  // Upper bound of populated blocks per unit
	minResidentsPerRT = 5
	maxResidentsPerRT = 15
	batchSize         = 100
)

// Default plaintext passwords per role
const (
	AdminPassword = "admin123"
	RWPassword    = "rw123456"
	RTPassword    = "rt123456"
	WargaPassword = "warga123"
)

var (
	firstNames = []string{"Ahmad", "Budi", "Citra", "Dewi", "Eko", "Fitri", "Gunawan", "Hani", "Indra", "Joko"}
	lastNames  = []string{"Santoso", "Kusuma", "Wijaya", "Sari", "Setiawan", "Rahayu", "Prabowo", "Wibowo", "Saputra", "Lestari"}
)

// Hasher hashes seed passwords
type Hasher interface {
	Hash(plain string) (string, error)
}

// Options controls generation
type Options struct {
	Seed      int64 // Source seed; equal seeds give equal output
	Residents int   // Number of residents to generate
}

// Users builds the full seed population. Each role's default password is
// hashed once and shared by every account of that role.
func Users(h Hasher, opts Options) ([]domain.User, error) {
	if opts.Residents <= 0 {
		opts.Residents = DefaultResidents
	}
	hashes := make(map[domain.Role]string, 4)
	for role, plain := range map[domain.Role]string{
		domain.RoleAdmin: AdminPassword,
		domain.RoleRW:    RWPassword,
		domain.RoleRT:    RTPassword,
		domain.RoleWarga: WargaPassword,
	} {
		hash, err := h.Hash(plain)
		if err != nil {
			return nil, errors.Wrapf(err, "hash %s password", role)
		}
		hashes[role] = hash
	}

	users := make([]domain.User, 0, 1+RWCount+RWCount*RTPerRW+opts.Residents)
	// Admin
	users = append(users, domain.User{
		NIK:      "0000000000000000",
		Nama:     "Administrator",
		Password: hashes[domain.RoleAdmin],
		Role:     domain.RoleAdmin,
		Alamat:   strPtr("Kantor Desa"),
	})
	// RW heads
	for rw := 1; rw <= RWCount; rw++ {
		users = append(users, domain.User{
			NIK:      fmt.Sprintf("1%02d%013d", rw, 0),
			Nama:     fmt.Sprintf("Ketua RW %d", rw),
			Password: hashes[domain.RoleRW],
			Role:     domain.RoleRW,
			RW:       intPtr(rw),
			Alamat:   strPtr(fmt.Sprintf("Kantor RW %d", rw)),
		})
	}
	// RT heads
	for rw := 1; rw <= RWCount; rw++ {
		for rt := 1; rt <= RTPerRW; rt++ {
			users = append(users, domain.User{
				NIK:      fmt.Sprintf("2%02d%02d%011d", rw, rt, 0),
				Nama:     fmt.Sprintf("Ketua RT %d RW %d", rt, rw),
				Password: hashes[domain.RoleRT],
				Role:     domain.RoleRT,
				RT:       intPtr(rt),
				RW:       intPtr(rw),
				Alamat:   strPtr(fmt.Sprintf("Kantor RT %d RW %d", rt, rw)),
			})
		}
	}
	return append(users, residents(rand.New(rand.NewSource(opts.Seed)), hashes[domain.RoleWarga], opts.Residents)...), nil
}

// residents walks the RWs, picking a random number of populated RTs per RW and
// a random household count per RT, until count residents exist. Sequence
// numbers continue per RT across passes so NIKs never repeat.
func residents(rng *rand.Rand, hash string, count int) []domain.User {
	out := make([]domain.User, 0, count)
	next := make(map[[2]int]int) // Last sequence number used per (rw, rt)
	for len(out) < count {
		for rw := 1; rw <= RWCount && len(out) < count; rw++ {
			rtCount := rng.Intn(maxRTsPerRW) + 1
			for rt := 1; rt <= rtCount && len(out) < count; rt++ {
				n := rng.Intn(maxResidentsPerRT-minResidentsPerRT+1) + minResidentsPerRT
				for i := 0; i < n && len(out) < count; i++ {
					key := [2]int{rw, rt}
					next[key]++
					seq := next[key]
					first := firstNames[rng.Intn(len(firstNames))]
					last := lastNames[rng.Intn(len(lastNames))]
					out = append(out, domain.User{
						NIK:      fmt.Sprintf("3%02d%02d%04d%07d", rw, rt, seq, 0),
						Nama:     first + " " + last,
						Password: hash,
						Role:     domain.RoleWarga,
						RT:       intPtr(rt),
						RW:       intPtr(rw),
						Alamat:   strPtr(fmt.Sprintf("Jl. RW %d RT %d No. %d", rw, rt, seq)),
					})
				}
			}
		}
	}
	return out
}

// Up inserts users in batches inside one transaction
func Up(ctx context.Context, db *gorm.DB, users []domain.User) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Reports").CreateInBatches(users, batchSize).Error
	})
	if err != nil {
		return errors.Wrap(err, "insert seed users")
	}
	logrus.WithField("count", len(users)).Info("Seed users inserted")
	return nil
}

// Down removes every user; their reports go with them through the cascading foreign key
func Down(ctx context.Context, db *gorm.DB) error {
	res := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.User{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete users")
	}
	logrus.WithField("count", res.RowsAffected).Info("Seed users removed")
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
