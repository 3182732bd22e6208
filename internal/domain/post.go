package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

func (s PostStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// TagList 以 JSON 存储的小写标签集合
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	return string(b), err
}

func (t *TagList) Scan(v any) error {
	switch b := v.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(b, t)
	case string:
		return json.Unmarshal([]byte(b), t)
	default:
		return errors.New("unsupported tags column type")
	}
}

type Post struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	AuthorID    string     `gorm:"size:36;not null;index" json:"authorId"`
	Author      *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     string     `gorm:"size:200" json:"excerpt"`
	Slug        string     `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	CategoryID  string     `gorm:"size:36;index" json:"categoryId,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags        TagList    `gorm:"type:text" json:"tags"`
	Status      PostStatus `gorm:"size:16;not null;default:draft;index" json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ViewCount   int64      `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Likes    []PostLike `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	// 派生字段，从关联表现算，不落库
	LikeCount    int64 `gorm:"-" json:"likeCount"`
	CommentCount int64 `gorm:"-" json:"commentCount"`
	IsLiked      bool  `gorm:"-" json:"isLiked"`
}

func (Post) TableName() string { return "posts" }

// PostLike 每个用户对一篇文章至多一条
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:uniq_post_user" json:"postId"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:uniq_post_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostLike) TableName() string { return "post_likes" }

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	UserID    string    `gorm:"size:36;not null" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"size:500;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }

// PostFilter 列表筛选；可见性约束在 service 层收紧后才会下发到这里
type PostFilter struct {
	PageQuery
	Status   PostStatus `form:"status"`
	Category string     `form:"category"`
	Author   string     `form:"author"`
	Search   string     `form:"search"`

	// VisibleTo 非空时：status 之外额外放行该作者自己的未发布文章
	VisibleTo string `form:"-"`
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	FindByIdentifier(ctx context.Context, idOrSlug string) (*Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f PostFilter) ([]Post, int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)

	// 原子操作：读-改-写竞态的替代（见 DESIGN.md）
	IncrementViews(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
	HasLike(ctx context.Context, postID, userID string) (bool, error)
	CountComments(ctx context.Context, postID string) (int64, error)
	AddComment(ctx context.Context, c *Comment) error
}
