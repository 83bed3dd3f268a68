package walkthrough

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// User 演示用的简单记录
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewUsers 每次都返回一份全新的数据，章节之间互不影响
func NewUsers() []User {
	return []User{
		{ID: 1, Name: "Alberto"},
		{ID: 2, Name: "Marta"},
		{ID: 3, Name: "Maria"},
		{ID: 4, Name: "Pablo"},
		{ID: 5, Name: "Adolfo"},
		{ID: 1, Name: "Alberto"},
	}
}

// NewUserRefs 指针版本，用来演示 ForEach/Peek 里的修改
func NewUserRefs() []*User {
	users := NewUsers()
	refs := make([]*User, len(users))
	for i := range users {
		refs[i] = &users[i]
	}
	return refs
}

func userNames(users []User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return names
}

func refNames(users []*User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return names
}

// 名字按显示宽度对齐，带重音的名字也不会错位
func userTable(users []User) []string {
	width := 0
	for _, u := range users {
		width = max(width, runewidth.StringWidth(u.Name))
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("%s | %d", runewidth.FillRight(u.Name, width), u.ID))
	}
	return lines
}
