package service

import (
	"context"
	"strings"
	"time"

	"go-blog-api/internal/core/cache"
	"go-blog-api/internal/domain"
	"go-blog-api/pkg/slug"
	"go-blog-api/pkg/utils"
)

type PostService struct {
	posts      domain.PostRepository
	categories domain.CategoryRepository
	cache      *cache.Cache
}

func NewPostService(posts domain.PostRepository, categories domain.CategoryRepository, c *cache.Cache) *PostService {
	return &PostService{posts: posts, categories: categories, cache: c}
}

type PostInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CategoryID string   `json:"categoryId"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

func (s *PostService) Create(ctx context.Context, author *domain.Identity, in PostInput) (*domain.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = strings.TrimSpace(in.Excerpt)

	errs := fieldErrors{}
	if !lenBetween(in.Title, 5, 100) {
		errs.add("title", "title must be 5-100 characters")
	}
	if !lenBetween(in.Content, 10, 5000) {
		errs.add("content", "content must be 10-5000 characters")
	}
	if !lenBetween(in.Excerpt, 0, 200) {
		errs.add("excerpt", "excerpt must be at most 200 characters")
	}
	status := domain.StatusDraft
	if in.Status != "" {
		status = domain.PostStatus(in.Status)
		if !status.IsValid() {
			errs.add("status", "status must be draft, published or archived")
		}
	}
	if in.CategoryID != "" {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			errs.add("categoryId", "category does not exist")
		}
	}
	if !errs.empty() {
		return nil, domain.Validation("validation failed", errs)
	}

	sl := slug.Make(in.Title)
	if sl == "" {
		return nil, domain.Validation("validation failed", fieldErrors{"title": "title cannot be turned into a slug"})
	}

	p := &domain.Post{
		ID:         utils.NewID(),
		AuthorID:   author.ID,
		Title:      in.Title,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		Slug:       sl,
		CategoryID: in.CategoryID,
		Tags:       normalizeTags(in.Tags),
		Status:     status,
	}
	if status == domain.StatusPublished {
		now := time.Now()
		p.PublishedAt = &now
	}
	if err := s.posts.Create(ctx, p); err != nil {
		// slug 撞唯一键：不自动加后缀，直接拒绝
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.Conflict("a post with this slug already exists")
		}
		return nil, err
	}
	return s.posts.FindByID(ctx, p.ID)
}

type PostUpdateInput struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CategoryID *string   `json:"categoryId"`
	Tags       *[]string `json:"tags"`
	Status     *string   `json:"status"`
}

func (s *PostService) Update(ctx context.Context, requester *domain.Identity, id string, in PostUpdateInput) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("post not found")
	}
	if !domain.IsOwner(requester, p.AuthorID) {
		return nil, domain.Forbidden("not allowed to modify this post")
	}

	errs := fieldErrors{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if !lenBetween(t, 5, 100) {
			errs.add("title", "title must be 5-100 characters")
		} else {
			p.Title = t // slug 生成一次后不随标题变
		}
	}
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		if !lenBetween(c, 10, 5000) {
			errs.add("content", "content must be 10-5000 characters")
		} else {
			p.Content = c
		}
	}
	if in.Excerpt != nil {
		e := strings.TrimSpace(*in.Excerpt)
		if !lenBetween(e, 0, 200) {
			errs.add("excerpt", "excerpt must be at most 200 characters")
		} else {
			p.Excerpt = e
		}
	}
	if in.CategoryID != nil {
		cid := strings.TrimSpace(*in.CategoryID)
		if cid != "" {
			if err := s.checkCategory(ctx, cid); err != nil {
				errs.add("categoryId", "category does not exist")
			}
		}
		p.CategoryID = cid
		p.Category = nil
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(*in.Tags)
	}
	if in.Status != nil {
		st := domain.PostStatus(*in.Status)
		if !st.IsValid() {
			errs.add("status", "status must be draft, published or archived")
		} else {
			// 状态机是宽松的直接写；publishedAt 只在首次进入 published 时落一次
			if st == domain.StatusPublished && p.PublishedAt == nil {
				now := time.Now()
				p.PublishedAt = &now
			}
			p.Status = st
		}
	}
	if !errs.empty() {
		return nil, domain.Validation("validation failed", errs)
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, p.ID)
}

func (s *PostService) Remove(ctx context.Context, requester *domain.Identity, id string) error {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("post not found")
	}
	if !domain.IsOwner(requester, p.AuthorID) {
		return domain.Forbidden("not allowed to delete this post")
	}
	return s.posts.Delete(ctx, id)
}

// Get id 或 slug 定位；未发布文章对非作者非 admin 一律 404，不暴露存在性
func (s *PostService) Get(ctx context.Context, identifier string, requester *domain.Identity) (*domain.Post, error) {
	p, err := s.posts.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("post not found")
	}
	if p.Status != domain.StatusPublished && !domain.IsOwner(requester, p.AuthorID) {
		return nil, domain.NotFound("post not found")
	}

	// 每次成功读取 +1，作者自己读也算
	if err := s.posts.IncrementViews(ctx, p.ID); err != nil {
		return nil, err
	}
	p.ViewCount++

	if err := s.decorate(ctx, p, requester); err != nil {
		return nil, err
	}
	return p, nil
}

type LikeResult struct {
	LikeCount int64 `json:"likeCount"`
	IsLiked   bool  `json:"isLiked"`
}

// ToggleLike 幂等切换：有则删、无则插，全部走单条原子语句
func (s *PostService) ToggleLike(ctx context.Context, requester *domain.Identity, id string) (*LikeResult, error) {
	p, err := s.visiblePost(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	removed, err := s.posts.RemoveLike(ctx, p.ID, requester.ID)
	if err != nil {
		return nil, err
	}
	liked := false
	if !removed {
		if err := s.posts.AddLike(ctx, p.ID, requester.ID); err != nil {
			// 并发重复插入：该用户的点赞已在，等价于 liked
			if domain.KindOf(err) != domain.KindConflict {
				return nil, err
			}
		}
		liked = true
	}

	n, err := s.posts.CountLikes(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{LikeCount: n, IsLiked: liked}, nil
}

func (s *PostService) AddComment(ctx context.Context, requester *domain.Identity, id, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Validation("validation failed", fieldErrors{"content": "content is required"})
	}
	if !lenBetween(content, 1, 500) {
		return nil, domain.Validation("validation failed", fieldErrors{"content": "content must be at most 500 characters"})
	}

	p, err := s.visiblePost(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:      utils.NewID(),
		PostID:  p.ID,
		UserID:  requester.ID,
		Content: content,
	}
	if err := s.posts.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type PostPage struct {
	Items      []domain.Post     `json:"posts"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s *PostService) List(ctx context.Context, f domain.PostFilter, requester *domain.Identity) (*PostPage, error) {
	f.Normalize()

	admin := requester != nil && requester.Role.IsAdmin()
	if !admin {
		switch {
		case f.Status == "":
			// 默认只给 published；登录用户额外看到自己的
			f.Status = domain.StatusPublished
			if requester != nil {
				f.VisibleTo = requester.ID
			}
		case f.Status != domain.StatusPublished:
			// 非公开状态只能查自己的
			if requester == nil {
				return &PostPage{Items: []domain.Post{}, Pagination: domain.NewPagination(f.Page, f.Limit, 0)}, nil
			}
			f.Author = requester.ID
		}
	}

	items, total, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if requester != nil {
		for i := range items {
			liked, err := s.posts.HasLike(ctx, items[i].ID, requester.ID)
			if err != nil {
				return nil, err
			}
			items[i].IsLiked = liked
		}
	}
	return &PostPage{
		Items:      items,
		Pagination: domain.NewPagination(f.Page, f.Limit, total),
	}, nil
}

// visiblePost Get 的可见性判定，但不计阅读数（点赞/评论入口用）
func (s *PostService) visiblePost(ctx context.Context, id string, requester *domain.Identity) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("post not found")
	}
	if p.Status != domain.StatusPublished && !domain.IsOwner(requester, p.AuthorID) {
		return nil, domain.NotFound("post not found")
	}
	return p, nil
}

func (s *PostService) decorate(ctx context.Context, p *domain.Post, requester *domain.Identity) error {
	var err error
	if p.LikeCount, err = s.posts.CountLikes(ctx, p.ID); err != nil {
		return err
	}
	if p.CommentCount, err = s.posts.CountComments(ctx, p.ID); err != nil {
		return err
	}
	if requester != nil {
		if p.IsLiked, err = s.posts.HasLike(ctx, p.ID, requester.ID); err != nil {
			return err
		}
	}
	return nil
}

// checkCategory 存在性校验走 redis 缓存（短 TTL），新建分类最多延迟一分钟可见
func (s *PostService) checkCategory(ctx context.Context, id string) error {
	c, err := cache.GetOrLoadJSON(s.cache, ctx, "category:"+id, time.Minute,
		func(ctx context.Context) (*domain.Category, error) {
			return s.categories.FindByID(ctx, id)
		})
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("category not found")
	}
	return nil
}
