package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-biller/notify"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

const billingPath = "/dashboard/billing"

type BillingController struct {
	Bills *services.BillService
	Menu  *services.MenuService
	Pages *PageAuthorizer
}

func NewBillingController(bills *services.BillService, menu *services.MenuService, pages *PageAuthorizer) *BillingController {
	return &BillingController{Bills: bills, Menu: menu, Pages: pages}
}

func (bc *BillingController) Page(c *gin.Context) {
	_, restaurant, ok := bc.Pages.RequireTenant(c)
	if !ok {
		return
	}

	items, err := bc.Menu.ListAvailable(c.Request.Context(), restaurant.ID)
	if err != nil {
		logIfInternal(c, http.StatusInternalServerError, err, "billing menu failed")
		renderError(c, http.StatusInternalServerError, "Billing unavailable", genericErrorMessage)
		return
	}
	render(c, http.StatusOK, "billing.html", gin.H{"Title": "Billing", "Nav": "billing", "Restaurant": restaurant, "Sections": services.GroupByCategory(items)})
}

type createBillRequest struct {
	TableNumber   int                 `json:"table_number" binding:"required,gt=0"`
	CustomerPhone string              `json:"customer_phone" binding:"required"`
	Items         []services.BillLine `json:"items" binding:"required,min=1,dive"`
}

var billMessages = map[string]string{
	"TableNumber":   "Table number must be a positive number.",
	"CustomerPhone": "Customer phone number is required.",
	"Items":         "Add at least one item to the bill.",
	"MenuItemID":    "Every bill item must reference a menu item.",
	"Quantity":      "Item quantities must be at least 1.",
	"Quantity.lte":  fmt.Sprintf("Item quantities cannot exceed %d.", services.MaxLineQuantity),
	"Price":         "Invalid bill items.",
}

// parseNewBill accepts a JSON body or the billing form. The form sends the
// cart as a JSON string in "items"; without script it falls back to the
// qty_<id>/price_<id> inputs.
func parseNewBill(c *gin.Context) (services.NewBill, error) {
	bad := func(msg string) error { return &services.ValidationError{Message: msg} }

	if c.ContentType() == gin.MIMEJSON {
		var req createBillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return services.NewBill{}, bindingError(err, billMessages, "Invalid bill data.")
		}
		return services.NewBill{TableNumber: req.TableNumber, CustomerPhone: req.CustomerPhone, Items: req.Items}, nil
	}

	in := services.NewBill{CustomerPhone: c.PostForm("customer_phone")}
	table, err := strconv.Atoi(strings.TrimSpace(c.PostForm("table_number")))
	if err != nil {
		return in, bad("Table number must be a positive number.")
	}
	in.TableNumber = table

	if raw := strings.TrimSpace(c.PostForm("items")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Items); err != nil {
			return in, bad("Invalid bill items.")
		}
		return in, nil
	}

	form := c.Request.PostForm
	ids := make([]string, 0)
	for key := range form {
		if strings.HasPrefix(key, "qty_") {
			ids = append(ids, strings.TrimPrefix(key, "qty_"))
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		qty, err := strconv.Atoi(strings.TrimSpace(form.Get("qty_" + id)))
		if err != nil || qty == 0 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(form.Get("price_"+id)), 64)
		if err != nil {
			return in, bad("Invalid bill items.")
		}
		in.Items = append(in.Items, services.BillLine{MenuItemID: id, Quantity: qty, Price: price})
	}
	return in, nil
}

func (bc *BillingController) Create(c *gin.Context) {
	_, restaurant, ok := bc.Pages.RequireTenant(c)
	if !ok {
		return
	}

	in, err := parseNewBill(c)
	if err != nil {
		actionFailed(c, err, billingPath)
		return
	}

	created, err := bc.Bills.CreateBill(c.Request.Context(), restaurant, in)
	if err != nil {
		actionFailed(c, err, billingPath)
		return
	}

	bill := created.Bill
	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": restaurant.ID,
		"bill_id":       bill.ID,
		"items":         len(bill.Items),
	}).Info("bill created")

	actionSucceeded(c, http.StatusCreated,
		notify.Toast{
			Title:       fmt.Sprintf("Bill %s created successfully!", utils.ShortID(bill.ID)),
			Description: "Total " + utils.FormatCurrency(bill.TotalAmount),
			Variant:     notify.Success,
			ActionURL:   created.WhatsAppURL,
			ActionLabel: "Send on WhatsApp",
		},
		billingPath,
		gin.H{
			"bill_id":      bill.ID,
			"total_amount": bill.TotalAmount,
			"bill_url":     created.BillURL,
			"whatsapp_url": created.WhatsAppURL,
		})
}
