// Package cli 提供互動式的使用者管理選單。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"user-records/internal/api"
	"user-records/internal/database"
	"user-records/internal/model"
	"user-records/internal/store"
	"user-records/internal/validation"
)

const rule = "=================================================="

// App 單執行緒的 read-eval-print 迴圈，整個執行期間共用一個 session
type App struct {
	session   database.Session
	out       io.Writer
	lines     <-chan inputLine
	done      chan struct{}
	validator *validation.CustomValidator
	pageSize  int
}

// inputLine 一行輸入；err 非 nil 表示讀取失敗
type inputLine struct {
	text string
	err  error
}

// New 開始在背景讀取 in；讀到 EOF 時關閉內部 channel。
// Run 返回後讀取的 goroutine 不再送出資料，但仍會停在 Scan 直到 in 結束
func New(s database.Session, in io.Reader, out io.Writer, pageSize int) *App {
	lines := make(chan inputLine)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- inputLine{text: sc.Text()}:
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			slog.Error("read input failed", "error", err)
			select {
			case lines <- inputLine{err: fmt.Errorf("read input: %w", err)}:
			case <-done:
			}
		}
	}()
	return &App{
		session:   s,
		out:       out,
		lines:     lines,
		done:      done,
		validator: validation.New(),
		pageSize:  pageSize,
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt 印出提示並等待一行輸入；ctx 取消時回傳 ctx.Err()，輸入結束回傳 io.EOF
func (a *App) prompt(ctx context.Context, text string) (string, error) {
	a.printf("%s", text)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-a.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", line.err
		}
		return strings.TrimSpace(line.text), nil
	}
}

func (a *App) printMenu() {
	a.printf("\n%s\n           USER MANAGEMENT SYSTEM\n%s\n", rule, rule)
	a.printf("1. Create a new user\n")
	a.printf("2. View all users\n")
	a.printf("3. View user by ID\n")
	a.printf("4. View user by email\n")
	a.printf("5. Update user\n")
	a.printf("6. Delete user\n")
	a.printf("7. Search users\n")
	a.printf("8. Exit\n")
	a.printf("%s\n", rule)
}

// Run 直到選擇 Exit、輸入結束或 ctx 被取消才返回。
// 只有非預期的錯誤（例如讀取輸入失敗）會被回傳；store 的錯誤直接顯示給使用者。
// 每個 App 只能 Run 一次。
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)
	for {
		a.printMenu()
		choice, err := a.prompt(ctx, "\nEnter your choice (1-8): ")
		if err != nil {
			return a.stop(err)
		}

		switch choice {
		case "1":
			err = a.createUser(ctx)
		case "2":
			err = a.listUsers(ctx)
		case "3":
			err = a.showUserByID(ctx)
		case "4":
			err = a.showUserByEmail(ctx)
		case "5":
			err = a.updateUser(ctx)
		case "6":
			err = a.deleteUser(ctx)
		case "7":
			err = a.searchUsers(ctx)
		case "8":
			a.printf("\nGoodbye!\n")
			return nil
		default:
			a.printf("Invalid choice. Please enter a number between 1 and 8.\n")
		}
		if err != nil {
			return a.stop(err)
		}

		if _, err := a.prompt(ctx, "\nPress Enter to continue..."); err != nil {
			return a.stop(err)
		}
	}
}

func (a *App) stop(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		a.printf("\nGoodbye!\n")
		return nil
	case errors.Is(err, context.Canceled):
		a.printf("\n\nApplication interrupted. Goodbye!\n")
		return nil
	}
	return err
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func (a *App) printUser(u *model.User, detailed bool) {
	a.printf("\nID: %d\n", u.ID)
	a.printf("Name: %s\n", u.Name)
	a.printf("Email: %s\n", u.Email)
	a.printf("Phone: %s\n", orNA(u.Phone))
	a.printf("Address: %s\n", orNA(u.Address))
	a.printf("Created: %s\n", u.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	if detailed {
		a.printf("Updated: %s\n", u.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
}

func (a *App) printStoreError(err error) {
	a.printf("Error: %s\n", store.Message(err))
}

// readID 讀取 id；非數字時回報並回傳 ok=false
func (a *App) readID(ctx context.Context, text string) (int64, bool, error) {
	raw, err := a.prompt(ctx, text)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		a.printf("Please enter a valid ID number.\n")
		return 0, false, nil
	}
	return id, true, nil
}

// loadUser 讀取 id 並查詢；查無資料時提示
func (a *App) loadUser(ctx context.Context, text string) (*model.User, error) {
	id, ok, err := a.readID(ctx, text)
	if err != nil || !ok {
		return nil, err
	}
	u, err := store.GetUserByID(ctx, a.session, id)
	if err != nil {
		a.printStoreError(err)
		return nil, nil
	}
	return u, nil
}

func (a *App) createUser(ctx context.Context) error {
	a.printf("\n--- CREATE NEW USER ---\n")

	var req api.CreateUserRequest
	fields := []struct {
		text string
		dst  *string
	}{
		{"Enter name: ", &req.Name},
		{"Enter email: ", &req.Email},
		{"Enter phone (optional): ", &req.Phone},
		{"Enter address (optional): ", &req.Address},
	}
	for _, f := range fields {
		v, err := a.prompt(ctx, f.text)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	req.Normalize()

	if err := a.validator.Validate(&req); err != nil {
		a.printf("Error: %s\n", validation.Message(err))
		return nil
	}

	u, err := store.CreateUser(ctx, a.session, req.Params())
	if err != nil {
		a.printStoreError(err)
		return nil
	}
	a.printf("User created successfully!\n")
	a.printf("ID: %d\nName: %s\nEmail: %s\n", u.ID, u.Name, u.Email)
	return nil
}

func (a *App) listUsers(ctx context.Context) error {
	a.printf("\n--- ALL USERS ---\n")
	list, err := store.ListUsers(ctx, a.session, 0, a.pageSize)
	if err != nil {
		a.printStoreError(err)
		return nil
	}
	if len(list) == 0 {
		a.printf("No users found.\n")
		return nil
	}
	for i := range list {
		a.printUser(&list[i], false)
		a.printf("%s\n", strings.Repeat("-", 30))
	}
	return nil
}

func (a *App) showUserByID(ctx context.Context) error {
	a.printf("\n--- VIEW USER BY ID ---\n")
	u, err := a.loadUser(ctx, "Enter user ID: ")
	if err != nil || u == nil {
		return err
	}
	a.printUser(u, true)
	return nil
}

func (a *App) showUserByEmail(ctx context.Context) error {
	a.printf("\n--- VIEW USER BY EMAIL ---\n")
	email, err := a.prompt(ctx, "Enter email: ")
	if err != nil {
		return err
	}
	u, err := store.GetUserByEmail(ctx, a.session, email)
	if err != nil {
		a.printStoreError(err)
		return nil
	}
	a.printUser(u, true)
	return nil
}

// updateUser 留白代表保留原值
func (a *App) updateUser(ctx context.Context) error {
	a.printf("\n--- UPDATE USER ---\n")
	u, err := a.loadUser(ctx, "Enter user ID to update: ")
	if err != nil || u == nil {
		return err
	}

	a.printf("\nCurrent user information:\n")
	a.printf("Name: %s\nEmail: %s\nPhone: %s\nAddress: %s\n", u.Name, u.Email, orNA(u.Phone), orNA(u.Address))
	a.printf("\nEnter new information (press Enter to keep current value):\n")

	params := model.UpdateUserParams{ID: u.ID}
	fields := []struct {
		text string
		dst  **string
	}{
		{fmt.Sprintf("Name (%s): ", u.Name), &params.Name},
		{fmt.Sprintf("Email (%s): ", u.Email), &params.Email},
		{fmt.Sprintf("Phone (%s): ", orNA(u.Phone)), &params.Phone},
		{fmt.Sprintf("Address (%s): ", orNA(u.Address)), &params.Address},
	}
	for _, f := range fields {
		v, err := a.prompt(ctx, f.text)
		if err != nil {
			return err
		}
		*f.dst = model.OptionalString(v)
	}

	merged := api.FromUser(u)
	if params.Name != nil {
		merged.Name = *params.Name
	}
	if params.Email != nil {
		merged.Email = *params.Email
	}
	if params.Phone != nil {
		merged.Phone = *params.Phone
	}
	if params.Address != nil {
		merged.Address = *params.Address
	}
	if err := a.validator.Validate(&merged); err != nil {
		a.printf("Error: %s\n", validation.Message(err))
		return nil
	}

	updated, err := store.UpdateUser(ctx, a.session, params)
	if err != nil {
		a.printStoreError(err)
		return nil
	}
	a.printf("User updated successfully!\n")
	a.printf("Updated Name: %s\nUpdated Email: %s\n", updated.Name, updated.Email)
	return nil
}

func (a *App) deleteUser(ctx context.Context) error {
	a.printf("\n--- DELETE USER ---\n")
	u, err := a.loadUser(ctx, "Enter user ID to delete: ")
	if err != nil || u == nil {
		return err
	}

	a.printf("\nUser to delete:\nID: %d\nName: %s\nEmail: %s\n", u.ID, u.Name, u.Email)
	confirm, err := a.prompt(ctx, "\nAre you sure you want to delete this user? (yes/no): ")
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "yes" {
		a.printf("Deletion cancelled.\n")
		return nil
	}

	if err := store.DeleteUser(ctx, a.session, u.ID); err != nil {
		a.printStoreError(err)
		return nil
	}
	a.printf("User deleted successfully!\n")
	return nil
}

func (a *App) searchUsers(ctx context.Context) error {
	a.printf("\n--- SEARCH USERS ---\n")
	term, err := a.prompt(ctx, "Enter search term (name or email): ")
	if err != nil {
		return err
	}
	if term == "" {
		a.printf("Please enter a search term.\n")
		return nil
	}

	found, err := store.SearchUsers(ctx, a.session, term)
	if err != nil {
		a.printStoreError(err)
		return nil
	}
	if len(found) == 0 {
		a.printf("No users found matching '%s'.\n", term)
		return nil
	}
	a.printf("\nFound %d user(s) matching '%s':\n", len(found), term)
	for _, u := range found {
		a.printf("\nID: %d\nName: %s\nEmail: %s\nPhone: %s\n", u.ID, u.Name, u.Email, orNA(u.Phone))
		a.printf("%s\n", strings.Repeat("-", 30))
	}
	return nil
}
