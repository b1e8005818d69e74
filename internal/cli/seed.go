package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"crmd/internal/config"
	"crmd/internal/engine"
	"crmd/internal/entity"
	"crmd/internal/store"
)

// defaultFixtures mirrors the canonical seed data: one customer and two
// products whose prices make an easy-to-verify order total.
const defaultFixtures = `customers:
  - name: Seed User
    email: seed@example.com
    phone: "+1234567890"
products:
  - name: Phone
    price: "500"
    stock: 5
  - name: Tablet
    price: "800"
    stock: 3
`

// Fixtures is the YAML shape of a seed file.
type Fixtures struct {
	Customers []CustomerFixture `yaml:"customers"`
	Products  []ProductFixture  `yaml:"products"`
}

// CustomerFixture is one customer record in a seed file.
type CustomerFixture struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone,omitempty"`
}

// ProductFixture is one product record in a seed file.
// Price is a decimal string so fixtures never round-trip through floats.
type ProductFixture struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
	Stock int    `yaml:"stock,omitempty"`
}

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	FixturesFile string
}

// NewSeedCommand creates the seed command. Seeding is get-or-create:
// re-running it against the same database is a no-op, matching the
// idempotency of the consistency sweeps.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the database with fixture customers and products",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FixturesFile, "fixtures", "", "YAML fixtures file (default: built-in seed data)")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	fixtures, err := loadFixtures(opts.FixturesFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load fixtures", err)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	out := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	created, skipped, err := seed(cmd.Context(), st, fixtures, out)
	if err != nil {
		return WrapExitError(ExitFailure, "seed", err)
	}

	return out.Success(fmt.Sprintf("Database seeded successfully (%d created, %d skipped)", created, skipped))
}

// loadFixtures parses the fixtures file, or the built-in defaults when no
// file is given.
func loadFixtures(path string) (*Fixtures, error) {
	raw := []byte(defaultFixtures)
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
	}

	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// seed creates fixture records through the mutation engine so seeding runs
// the exact validation path clients do. Records that already exist are
// skipped; any other failure aborts.
func seed(ctx context.Context, st *store.Store, fixtures *Fixtures, out *OutputFormatter) (created, skipped int, err error) {
	eng := engine.New(st)

	for _, c := range fixtures.Customers {
		_, err := eng.CreateCustomer(ctx, engine.CustomerInput{
			Name:  c.Name,
			Email: c.Email,
			Phone: c.Phone,
		})
		if entity.IsCode(err, entity.CodeDuplicateEmail) {
			out.VerboseLog("customer %s already exists, skipping", c.Email)
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("seed customer %s: %w", c.Email, err)
		}
		created++
	}

	for _, p := range fixtures.Products {
		if _, err := st.ProductByName(ctx, p.Name); err == nil {
			out.VerboseLog("product %s already exists, skipping", p.Name)
			skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return created, skipped, fmt.Errorf("seed product %s: %w", p.Name, err)
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return created, skipped, fmt.Errorf("seed product %s: bad price %q: %w", p.Name, p.Price, err)
		}
		if _, err := eng.CreateProduct(ctx, engine.ProductInput{
			Name:  p.Name,
			Price: price,
			Stock: p.Stock,
		}); err != nil {
			return created, skipped, fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		created++
	}

	return created, skipped, nil
}
