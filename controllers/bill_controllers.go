package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

// BillController serves bills to customers. Nothing here needs a session.
type BillController struct {
	Bills *services.BillService
}

func NewBillController(bills *services.BillService) *BillController {
	return &BillController{Bills: bills}
}

var (
	errBillIDRequired = errors.New("Bill ID is required")
	errBillIDInvalid  = errors.New("Invalid bill ID")
)

func billIDParam(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("billId"))
	if id == "" {
		id = strings.TrimSpace(c.Query("billId"))
	}
	if id == "" {
		return "", errBillIDRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errBillIDInvalid
	}
	return id, nil
}

func (bc *BillController) load(c *gin.Context) (*services.PublicBill, int, error) {
	id, err := billIDParam(c)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	bill, err := bc.Bills.PublicBill(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return nil, http.StatusNotFound, errors.New("Bill not found")
	case err != nil:
		utils.ErrorLogger.WithError(err).WithField("bill_id", id).Error("public bill fetch failed")
		return nil, http.StatusInternalServerError, errors.New("Internal Server Error")
	}
	return bill, http.StatusOK, nil
}

// GetBill is the public JSON endpoint. Errors use {"error": "..."}.
func (bc *BillController) GetBill(c *gin.Context) {
	bill, code, err := bc.load(c)
	if err != nil {
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// Page renders the bill on the server; the customer's browser needs no script.
func (bc *BillController) Page(c *gin.Context) {
	bill, code, err := bc.load(c)
	if err != nil {
		title := "Bill not found"
		if code == http.StatusInternalServerError {
			title = "Something went wrong"
		}
		render(c, code, "error.html", gin.H{"Title": title, "Message": "We couldn't find this bill. Please check the link and try again."})
		return
	}
	render(c, http.StatusOK, "bill.html", gin.H{"Title": "Bill #" + utils.ShortID(bill.ID), "Bill": bill})
}

func (bc *BillController) ReceiptPDF(c *gin.Context) {
	bill, code, err := bc.load(c)
	if err != nil {
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}

	pdf, err := services.RenderReceiptPDF(bill)
	if err != nil {
		logIfInternal(c, http.StatusInternalServerError, err, "receipt render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.Header("Content-Disposition", `inline; filename="bill-`+utils.ShortID(bill.ID)+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
