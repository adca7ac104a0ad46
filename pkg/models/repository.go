package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/flaboy/aira-checkout/pkg/database"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// gorm-backed stores for the checkout core. The services consume the
// repository interfaces declared in their own packages; these are the
// default implementations wired by commence.

type TransactionStore struct{}

func (s *TransactionStore) Create(trx *Transaction) error {
	if err := database.Database().Create(trx).Error; err != nil {
		return fmt.Errorf("failed to persist transaction: %w", err)
	}
	return nil
}

// ListByOrder returns the order's transactions in creation order.
// The capture/refund resolvers rely on this order being chronological.
func (s *TransactionStore) ListByOrder(orderID uint) ([]*Transaction, error) {
	var trs []*Transaction
	err := database.Database().
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&trs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return trs, nil
}

func (s *TransactionStore) ListByDateRange(from, to time.Time) ([]*Transaction, error) {
	var trs []*Transaction
	err := database.Database().
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Order("transaction_date asc").
		Find(&trs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return trs, nil
}

type OrderStore struct{}

func (s *OrderStore) Save(order *Order) error {
	err := database.Database().Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

type QuoteStore struct{}

func (s *QuoteStore) Create(quote *Quote) error {
	if err := database.Database().Create(quote).Error; err != nil {
		return fmt.Errorf("failed to persist shipping quote: %w", err)
	}
	return nil
}

func (s *QuoteStore) ListByCart(cartID uint) ([]*Quote, error) {
	var quotes []*Quote
	err := database.Database().
		Where("cart_id = ?", cartID).
		Order("quote_date asc").
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping quotes: %w", err)
	}
	return quotes, nil
}

func (s *QuoteStore) ListByDateRange(from, to time.Time) ([]*Quote, error) {
	var quotes []*Quote
	err := database.Database().
		Where("quote_date >= ? AND quote_date < ?", from, to).
		Order("quote_date asc").
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping quotes: %w", err)
	}
	return quotes, nil
}

// ConfigurationStore 商户配置存储的gorm实现,blob按原样读写,
// 加解密由registry的Decrypter处理。
type ConfigurationStore struct{}

func (s *ConfigurationStore) Get(key string, store *types.MerchantStore) (string, error) {
	var record MerchantConfiguration
	err := database.Database().
		Where("store_id = ? AND `key` = ?", store.ID, key).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load merchant configuration %s: %w", key, err)
	}
	return record.Value, nil
}

func (s *ConfigurationStore) Save(key string, store *types.MerchantStore, value string) error {
	record := &MerchantConfiguration{StoreID: store.ID, Key: key, Value: value}

	var existing MerchantConfiguration
	err := database.Database().
		Where("store_id = ? AND `key` = ?", store.ID, key).
		First(&existing).Error
	if err == nil {
		existing.Value = value
		return database.Database().Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return database.Database().Create(record).Error
}

func (s *ConfigurationStore) Delete(key string, store *types.MerchantStore) error {
	return database.Database().
		Where("store_id = ? AND `key` = ?", store.ID, key).
		Delete(&MerchantConfiguration{}).Error
}
