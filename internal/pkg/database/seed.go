package database

import (
	"github.com/shopspring/decimal"
	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

type planSeed struct {
	name        string
	description string
	price       int64
	tasksLimit  int
	color       string
	isPopular   bool
	features    []string
}

var planSeeds = []planSeed{
	{
		name:        "Free",
		description: "Cocok untuk pemula yang ingin mencoba fitur dasar",
		price:       0,
		tasksLimit:  5,
		color:       "#64748b",
		features:    []string{"5 Task per bulan", "Basic support", "Todo list sederhana"},
	},
	{
		name:        "Basic",
		description: "Ideal untuk penggunaan personal dengan kebutuhan menengah",
		price:       29000,
		tasksLimit:  50,
		color:       "#06b6d4",
		features:    []string{"50 Task per bulan", "Email support", "Advanced todo features", "Export data"},
	},
	{
		name:        "Pro",
		description: "Terbaik untuk profesional dan tim kecil",
		price:       79000,
		tasksLimit:  200,
		color:       "#8b5cf6",
		isPopular:   true,
		features:    []string{"200 Task per bulan", "Priority support", "Team collaboration", "Advanced analytics", "Custom categories"},
	},
	{
		name:        "Enterprise",
		description: "Solusi lengkap untuk bisnis dan organisasi besar",
		price:       199000,
		tasksLimit:  1000,
		color:       "#f59e0b",
		features:    []string{"1000 Task per bulan", "24/7 Premium support", "Advanced team management", "Custom integrations", "White-label solution", "API access"},
	},
}

// SeedPlans inserts the plan catalog once. Plans are immutable reference data;
// existing rows are left untouched.
func SeedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, seed := range planSeeds {
		plan := models.Plan{
			Name:        seed.name,
			Description: seed.description,
			Price:       decimal.NewFromInt(seed.price),
			TasksLimit:  seed.tasksLimit,
			Color:       seed.color,
			IsPopular:   seed.isPopular,
		}
		if err := plan.SetFeatures(seed.features); err != nil {
			return err
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
