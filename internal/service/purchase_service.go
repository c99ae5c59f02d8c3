package service

import (
	"strings"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"
)

// purchaseTransitions 允许的购买记录状态流转
var purchaseTransitions = map[string][]string{
	constants.PurchaseStatusPending:   {constants.PurchaseStatusCompleted, constants.PurchaseStatusCancelled},
	constants.PurchaseStatusCompleted: {constants.PurchaseStatusRefunded},
}

// PurchaseService 购买记录查询与履约
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
}

// NewPurchaseService 创建购买记录服务
func NewPurchaseService(purchaseRepo repository.PurchaseRepository) *PurchaseService {
	return &PurchaseService{purchaseRepo: purchaseRepo}
}

// ListPurchases 买家购买历史
func (s *PurchaseService) ListPurchases(buyerID uint) ([]models.Purchase, error) {
	return s.purchaseRepo.ListByBuyer(buyerID)
}

// ListSales 卖家销售记录
func (s *PurchaseService) ListSales(sellerID uint) ([]models.Purchase, error) {
	return s.purchaseRepo.ListBySeller(sellerID)
}

// GetPurchase 仅买家或卖家可查看
func (s *PurchaseService) GetPurchase(userID, id uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	if !purchase.IsVisibleTo(userID) {
		return nil, ErrForbidden
	}
	return purchase, nil
}

// ListAll 后台购买记录列表
func (s *PurchaseService) ListAll(filter repository.PurchaseListFilter) ([]models.Purchase, int64, error) {
	return s.purchaseRepo.List(filter)
}

// UpdatePurchaseStatus 后台履约状态变更
func (s *PurchaseService) UpdatePurchaseStatus(id uint, status, notes string) (*models.Purchase, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	purchase, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	if !canTransitionPurchase(purchase.Status, status) {
		return nil, ErrInvalidPurchaseStatus
	}
	ok, err := s.purchaseRepo.TransitionStatus(id, purchase.Status, status, strings.TrimSpace(notes))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidPurchaseStatus
	}
	return s.purchaseRepo.GetByID(id)
}

func canTransitionPurchase(from, to string) bool {
	for _, allowed := range purchaseTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
