package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-blog-api/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

var _ domain.PostRepository = (*PostRepo)(nil)

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return translate("create post", r.db.WithContext(ctx).Create(p).Error)
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.findOne(ctx, "id = ?", []any{id})
}

// FindByIdentifier id 或 slug 均可定位
func (r *PostRepo) FindByIdentifier(ctx context.Context, idOrSlug string) (*domain.Post, error) {
	return r.findOne(ctx, "id = ? OR slug = ?", []any{idOrSlug, idOrSlug})
}

func (r *PostRepo) findOne(ctx context.Context, cond string, args []any) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Comments.User").
		First(&p, append([]any{cond}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find post", err)
	}
	return &p, nil
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	// 只写主表，防止 Save 顺带 upsert 预加载出来的关联；
	// view_count 只归 IncrementViews 写，整行回写会吞掉读到之后的自增
	err := r.db.WithContext(ctx).Omit(clause.Associations, "view_count").Save(p).Error
	return translate("update post", err)
}

// Delete 连带删除 likes/comments（不依赖驱动外键级联）
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if e := tx.Where("post_id = ?", id).Delete(&domain.PostLike{}).Error; e != nil {
			return e
		}
		if e := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; e != nil {
			return e
		}
		return tx.Where("id = ?", id).Delete(&domain.Post{}).Error
	})
	return translate("delete post", err)
}

var postSortCols = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"views":       "view_count",
	"publishedAt": "published_at",
}

func (r *PostRepo) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Post{})

	if f.Status != "" {
		if f.VisibleTo != "" {
			// 指定作者本人可见自己的非公开文章
			q = q.Where("status = ? OR author_id = ?", f.Status, f.VisibleTo)
		} else {
			q = q.Where("status = ?", f.Status)
		}
	}
	if f.Category != "" {
		q = q.Where("category_id = ?", f.Category)
	}
	if f.Author != "" {
		q = q.Where("author_id = ?", f.Author)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count posts", err)
	}

	col, ok := postSortCols[f.SortBy]
	if !ok {
		col = "created_at"
	}
	var posts []domain.Post
	err := q.Preload("Author").Preload("Category").
		Order(col + " " + orderDir(f.SortOrder)).
		Limit(f.Limit).Offset(f.Offset()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translate("list posts", err)
	}
	if err := r.fillCounts(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// fillCounts 批量补 likeCount/commentCount，避免 N+1
func (r *PostRepo) fillCounts(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	type row struct {
		PostID string
		N      int64
	}
	count := func(table string) (map[string]int64, error) {
		var rows []row
		err := r.db.WithContext(ctx).Table(table).
			Select("post_id, COUNT(*) AS n").
			Where("post_id IN ?", ids).
			Group("post_id").
			Scan(&rows).Error
		if err != nil {
			return nil, translate("count "+table, err)
		}
		m := make(map[string]int64, len(rows))
		for _, r := range rows {
			m[r.PostID] = r.N
		}
		return m, nil
	}
	likes, err := count("post_likes")
	if err != nil {
		return err
	}
	comments, err := count("comments")
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].LikeCount = likes[posts[i].ID]
		posts[i].CommentCount = comments[posts[i].ID]
	}
	return nil
}

func (r *PostRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("category_id = ?", categoryID).Count(&n).Error
	if err != nil {
		return 0, translate("count posts by category", err)
	}
	return n, nil
}

// IncrementViews 单条原子自增，不走读-改-写
func (r *PostRepo) IncrementViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	return translate("increment views", err)
}

func (r *PostRepo) AddLike(ctx context.Context, postID, userID string) error {
	like := domain.PostLike{PostID: postID, UserID: userID}
	return translate("add like", r.db.WithContext(ctx).Create(&like).Error)
}

// RemoveLike 返回是否真的删掉了一条（幂等切换的判定依据）
func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&domain.PostLike{})
	if res.Error != nil {
		return false, translate("remove like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostRepo) CountLikes(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.PostLike{}).
		Where("post_id = ?", postID).Count(&n).Error
	if err != nil {
		return 0, translate("count likes", err)
	}
	return n, nil
}

func (r *PostRepo) HasLike(ctx context.Context, postID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&n).Error
	if err != nil {
		return false, translate("has like", err)
	}
	return n > 0, nil
}

func (r *PostRepo) CountComments(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("post_id = ?", postID).Count(&n).Error
	if err != nil {
		return 0, translate("count comments", err)
	}
	return n, nil
}

func (r *PostRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	return translate("add comment", r.db.WithContext(ctx).Create(c).Error)
}
