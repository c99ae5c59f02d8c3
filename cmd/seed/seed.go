package main

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const defaultSeedPassword = "ecofinds123"

//go:embed fixtures.yml
var fixturesYAML []byte

type fixtures struct {
	Seller     sellerFixture     `yaml:"seller"`
	Categories []categoryFixture `yaml:"categories"`
	Products   []productFixture  `yaml:"products"`
}

type sellerFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	Bio      string `yaml:"bio"`
}

type categoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type productFixture struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Condition   string   `yaml:"condition"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
}

type seedResult struct {
	Categories int
	Products   int
}

func loadFixtures() (*fixtures, error) {
	return parseFixtures(fixturesYAML)
}

func parseFixtures(raw []byte) (*fixtures, error) {
	var f fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Seller.Email) == "" {
		return nil, errors.New("seller email is required")
	}
	return &f, nil
}

// seed 幂等写入演示数据，已存在的记录保持不变
func seed(db *gorm.DB, f *fixtures, password string) (*seedResult, error) {
	result := &seedResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		seller, err := ensureSeller(tx, f.Seller, password)
		if err != nil {
			return err
		}

		categoryIDs := make(map[string]uint, len(f.Categories))
		for _, item := range f.Categories {
			category := models.Category{Name: item.Name, Description: item.Description, IsActive: true}
			created, err := createIfMissing(tx, &category, "name = ?", item.Name)
			if err != nil {
				return fmt.Errorf("category %s: %w", item.Name, err)
			}
			if created {
				result.Categories++
			}
			categoryIDs[item.Name] = category.ID
		}

		for _, item := range f.Products {
			categoryID, ok := categoryIDs[item.Category]
			if !ok {
				return fmt.Errorf("product %s: unknown category %q", item.Title, item.Category)
			}
			price, err := models.NewMoneyFromString(item.Price)
			if err != nil {
				return fmt.Errorf("product %s: %w", item.Title, err)
			}
			product := models.Product{
				Title:       item.Title,
				Description: item.Description,
				Price:       price,
				CategoryID:  categoryID,
				SellerID:    seller.ID,
				Condition:   item.Condition,
				Status:      models.ProductAvailable,
				Images:      models.StringArray{"/placeholder-image.png"},
				Tags:        models.StringArray(item.Tags),
			}
			created, err := createIfMissing(tx, &product, "title = ? AND seller_id = ?", item.Title, seller.ID)
			if err != nil {
				return fmt.Errorf("product %s: %w", item.Title, err)
			}
			if created {
				result.Products++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// createIfMissing 按查询条件查找记录，不存在时以 record 创建；存在时 record 被覆盖为已有数据
func createIfMissing[T any](tx *gorm.DB, record *T, query string, args ...interface{}) (bool, error) {
	var existing T
	err := tx.Where(query, args...).First(&existing).Error
	if err == nil {
		*record = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := tx.Create(record).Error; err != nil {
		return false, err
	}
	return true, nil
}

func ensureSeller(tx *gorm.DB, f sellerFixture, password string) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", strings.ToLower(f.Email)).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = models.User{
		Username:     f.Username,
		Email:        strings.ToLower(f.Email),
		PasswordHash: string(hashed),
		Bio:          f.Bio,
		Location:     f.Location,
		Status:       constants.UserStatusActive,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
