package utils

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"pos-api/models"
)

const IdentityKey = "identity"

// ProductResponsePublic is what anonymous shoppers see. Stock and
// visibility flags stay internal.
type ProductResponsePublic struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  *string               `json:"description,omitempty"`
	Price        float64               `json:"price"`
	Images       []models.ProductImage `json:"images"`
	Category     string                `json:"category"`
	SubCategory  string                `json:"subCategory"`
	IsNewArrival bool                  `json:"isNewArrival"`
	IsBestSeller bool                  `json:"isBestSeller"`
}

func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

func GetUserRole(c *gin.Context) models.Role {
	id, ok := GetIdentity(c)
	if !ok {
		return ""
	}
	return id.Role
}

func FilterProductsForRole(items []models.Product, role models.Role) interface{} {
	if role == models.RoleOwner || role == models.RoleStaff {
		return items
	}

	public := make([]ProductResponsePublic, len(items))
	for i, item := range items {
		public[i] = toPublic(item)
	}
	return public
}

func FilterProductForRole(item models.Product, role models.Role) interface{} {
	if role == models.RoleOwner || role == models.RoleStaff {
		return item
	}
	return toPublic(item)
}

func toPublic(item models.Product) ProductResponsePublic {
	images := item.Images
	if images == nil {
		images = []models.ProductImage{}
	}
	return ProductResponsePublic{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		Images:       images,
		Category:     item.Category,
		SubCategory:  item.SubCategory,
		IsNewArrival: item.IsNewArrival,
		IsBestSeller: item.IsBestSeller,
	}
}

func toJSONString(v interface{}) *string {
	if v == nil {
		return nil
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	str := string(bytes)
	return &str
}

func getStringValue(ptr *string) string {
	if ptr != nil {
		return *ptr
	}
	return ""
}
