// Package password はbcryptによるパスワードのハッシュ化と照合を提供します。
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost はハッシュ計算のコスト（2^10 ラウンド）です。
const DefaultCost = bcrypt.DefaultCost

// ErrMismatch はパスワードがハッシュと一致しない場合に返されます。
var ErrMismatch = errors.New("password does not match")

// BcryptHasher はソルト付きbcryptハッシュを生成・照合します。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher は指定されたコストのBcryptHasherを生成します。
// 範囲外のコストはDefaultCostに置き換えます。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文パスワードのハッシュを返します。
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Compare はハッシュと平文パスワードを照合します。不一致の場合は ErrMismatch を返します。
func (h *BcryptHasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
