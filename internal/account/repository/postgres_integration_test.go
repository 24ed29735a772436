//go:build integration

package repository_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/account/repository"
	"craftconnect/backend/internal/db"
	"craftconnect/backend/internal/db/migrate"
)

var _ = Describe("PostgresRepository", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		pool      *pgxpool.Pool
		repo      *repository.PostgresRepository
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("craftconnect_test"),
			postgres.WithUsername("craftconnect"),
			postgres.WithPassword("craftconnect"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrate.Run(dsn, "up")).To(Succeed())

		pool, err = db.OpenPostgres(ctx, dsn)
		Expect(err).NotTo(HaveOccurred())
		repo = repository.NewPostgresRepository(pool)
	})

	AfterAll(func() {
		if pool != nil {
			pool.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	now := time.Now().UTC().Truncate(time.Microsecond)

	It("rejects a second account with the same email", func() {
		a := &domain.Account{ID: "a1", Name: "Jane", Email: "jane@x.com", PasswordHash: "h",
			Role: domain.RoleProfessional, CreatedAt: now, UpdatedAt: now}
		Expect(repo.Create(ctx, a)).To(Succeed())

		b := *a
		b.ID = "a2"
		Expect(repo.Create(ctx, &b)).To(MatchError(domain.ErrDuplicateEmail))
	})

	It("completes a profile in one transaction", func() {
		services := []*domain.Service{
			{ID: "s1", ProfessionalID: "a1", Name: "Plumbing", Type: "repair", Rate: 50, Position: 0, CreatedAt: now},
			{ID: "s2", ProfessionalID: "a1", Name: "Tiling", Type: "repair", Rate: 40, Position: 1, CreatedAt: now},
		}
		p := domain.Profile{
			Address:    "1 Main St",
			Location:   &domain.Location{Longitude: -73.98, Latitude: 40.75},
			ServiceIDs: []string{"s1", "s2"},
			UpdatedAt:  now,
		}
		Expect(repo.CompleteProfile(ctx, "a1", p, services)).To(Succeed())

		got, err := repo.GetByID(ctx, "a1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ProfileCompleted).To(BeTrue())
		Expect(got.ServicesOffered).To(Equal([]string{"s1", "s2"}))
		Expect(got.Location).To(Equal(p.Location))

		listed, err := repo.ListServices(ctx, "a1")
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(HaveLen(2))
	})

	It("rolls back services when the account is missing", func() {
		services := []*domain.Service{
			{ID: "s3", ProfessionalID: "a1", Name: "Painting", Type: "decor", Rate: 30, Position: 0, CreatedAt: now},
		}
		err := repo.CompleteProfile(ctx, "ghost", domain.Profile{UpdatedAt: now}, services)
		Expect(err).To(MatchError(domain.ErrNotFound))

		listed, err := repo.ListServices(ctx, "a1")
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(HaveLen(2))
	})

	It("completes a profile only once", func() {
		extra := []*domain.Service{
			{ID: "s4", ProfessionalID: "a1", Name: "Roofing", Type: "repair", Rate: 70, Position: 0, CreatedAt: now},
		}
		err := repo.CompleteProfile(ctx, "a1", domain.Profile{Address: "elsewhere", ServiceIDs: []string{"s4"}, UpdatedAt: now}, extra)
		Expect(err).To(MatchError(domain.ErrProfileAlreadyCompleted))

		listed, err := repo.ListServices(ctx, "a1")
		Expect(err).NotTo(HaveOccurred())
		Expect(listed).To(HaveLen(2))
	})
})
