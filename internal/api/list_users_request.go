package api

// MaxPage 可請求的最大頁碼
const MaxPage = 1_000_000

// ListUsersRequest 列表頁的查詢參數
type ListUsersRequest struct {
	Query string `query:"q" validate:"max=255"`
	Page  int    `query:"page" validate:"omitempty,min=1,max=1000000"`
}
