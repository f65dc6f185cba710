// Package policy 无状态的鉴权判定。
//
// 默认行为与线上一致：删除宠物、修改用户资料不校验归属；
// 打开 StrictOwnership 后两者都只允许本人操作。
package policy

import "furrylink/internal/domain"

type Options struct {
	StrictOwnership bool
}

type Policy struct{ opt Options }

func New(opt Options) Policy { return Policy{opt: opt} }

func requireLogin(who domain.Identity) error {
	if !who.Authenticated() {
		return domain.Unauthorized("User not authorized.")
	}
	return nil
}

func (p Policy) CanCreatePet(who domain.Identity) error { return requireLogin(who) }

func (p Policy) CanPostReview(who domain.Identity) error { return requireLogin(who) }

func (p Policy) CanListApplications(who domain.Identity) error { return requireLogin(who) }

func (p Policy) CanApply(who domain.Identity) error { return requireLogin(who) }

// CanDeletePet pet 为 nil 时返回 NotFound
func (p Policy) CanDeletePet(who domain.Identity, pet *domain.Pet) error {
	if pet == nil {
		return domain.NotFound("No pet found.")
	}
	if p.opt.StrictOwnership && pet.UserID != who.UserID {
		return domain.Unauthorized("Not authorized.")
	}
	return nil
}

func (p Policy) CanPatchUser(who domain.Identity, target *domain.User) error {
	if target == nil {
		return domain.NotFound("User not found.")
	}
	if p.opt.StrictOwnership && target.ID != who.UserID {
		return domain.Unauthorized("Not authorized.")
	}
	return nil
}

// CanSetApplicationStatus 只有宠物发布者可以审批，申请人本人不行
func (p Policy) CanSetApplicationStatus(who domain.Identity, app *domain.AdoptionApplication, pet *domain.Pet) error {
	if app == nil {
		return domain.NotFound("Application not found.")
	}
	if !who.Authenticated() || pet == nil || pet.UserID != who.UserID {
		return domain.Unauthorized("Not authorized.")
	}
	return nil
}
