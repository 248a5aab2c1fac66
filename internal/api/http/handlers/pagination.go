package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
)

const defaultPageSize = 20

// parsePagination reads limit/offset style paging from page/page_size query
// parameters.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", defaultPageSize)
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	val := c.Query(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// paginated wraps results with count and page navigation links.
func paginated(c *fiber.Ctx, total int64, limit, offset int, results any) dto.PaginatedResponse {
	resp := dto.PaginatedResponse{Count: total, Results: results}
	if limit <= 0 {
		return resp
	}
	page := offset/limit + 1
	if int64(offset+limit) < total {
		next := pageURL(c, page+1, limit)
		resp.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1, limit)
		resp.Previous = &prev
	}
	return resp
}

func pageURL(c *fiber.Ctx, page, pageSize int) string {
	return fmt.Sprintf("%s%s?page=%d&page_size=%d", c.BaseURL(), c.Path(), page, pageSize)
}
