package domain

// Identity 当前请求的调用方；UserID 为 0 表示未登录
type Identity struct {
	UserID uint
}

func Anonymous() Identity { return Identity{} }

func (i Identity) Authenticated() bool { return i.UserID != 0 }
