package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/notify"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

const menuPath = "/dashboard/menu"

type MenuController struct {
	Menu  *services.MenuService
	Pages *PageAuthorizer
}

func NewMenuController(menu *services.MenuService, pages *PageAuthorizer) *MenuController {
	return &MenuController{Menu: menu, Pages: pages}
}

func (mc *MenuController) Page(c *gin.Context) {
	_, restaurant, ok := mc.Pages.RequireTenant(c)
	if !ok {
		return
	}

	items, err := mc.Menu.List(c.Request.Context(), restaurant.ID)
	if err != nil {
		logIfInternal(c, http.StatusInternalServerError, err, "menu list failed")
		renderError(c, http.StatusInternalServerError, "Menu unavailable", genericErrorMessage)
		return
	}
	if wantsJSONStrict(c) {
		utils.RespondJSON(c, http.StatusOK, "Menu loaded", items)
		return
	}
	render(c, http.StatusOK, "menu.html", gin.H{"Title": "Menu", "Nav": "menu", "Restaurant": restaurant, "Items": items})
}

var menuItemMessages = map[string]string{
	"Name":  "Item name is required.",
	"Price": "Price must be greater than zero.",
}

func bindMenuItem(c *gin.Context) (services.MenuItemInput, error) {
	var in services.MenuItemInput
	if err := c.ShouldBind(&in); err != nil {
		return in, bindingError(err, menuItemMessages, "Invalid menu item details.")
	}
	return in, nil
}

func (mc *MenuController) Create(c *gin.Context) {
	_, restaurant, ok := mc.Pages.RequireTenant(c)
	if !ok {
		return
	}
	in, err := bindMenuItem(c)
	if err != nil {
		actionFailed(c, err, menuPath)
		return
	}

	item, err := mc.Menu.Add(c.Request.Context(), restaurant.ID, in)
	if err != nil {
		actionFailed(c, err, menuPath)
		return
	}
	actionSucceeded(c, http.StatusCreated,
		notify.Toast{Title: "Menu item added", Description: item.Name, Variant: notify.Success},
		menuPath, item)
}

func (mc *MenuController) Update(c *gin.Context) {
	_, restaurant, ok := mc.Pages.RequireTenant(c)
	if !ok {
		return
	}
	in, err := bindMenuItem(c)
	if err != nil {
		actionFailed(c, err, menuPath)
		return
	}

	item, err := mc.Menu.Update(c.Request.Context(), restaurant.ID, c.Param("itemId"), in)
	if err != nil {
		actionFailed(c, err, menuPath)
		return
	}
	actionSucceeded(c, http.StatusOK,
		notify.Toast{Title: "Menu item updated", Description: item.Name, Variant: notify.Success},
		menuPath, item)
}

func (mc *MenuController) Delete(c *gin.Context) {
	_, restaurant, ok := mc.Pages.RequireTenant(c)
	if !ok {
		return
	}

	itemID := c.Param("itemId")
	if err := mc.Menu.Delete(c.Request.Context(), restaurant.ID, itemID); err != nil {
		actionFailed(c, err, menuPath)
		return
	}
	actionSucceeded(c, http.StatusOK,
		notify.Toast{Title: "Menu item deleted", Variant: notify.Success},
		menuPath, gin.H{"id": itemID})
}
