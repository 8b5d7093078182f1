package backend

import (
	"context"
	"fmt"
	"net/url"
)

// Login authenticates against the backend. It runs before a session exists,
// so no bearer header is attached.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.postJSON(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	return resp, err
}

// RegisterForm carries the business registration fields. The backend takes
// them as multipart form data, with an optional supporting document.
type RegisterForm struct {
	BusinessName  string
	BusinessType  string
	OwnerName     string
	Phone         string
	Email         string
	Password      string
	VerifyToken   string
	WAPhoneID     string
	WAVerifyToken string
}

func (c *Client) Register(ctx context.Context, form RegisterForm, doc *UploadFile) (StatusResponse, error) {
	fields := map[string]string{
		"business_name":   form.BusinessName,
		"business_type":   form.BusinessType,
		"owner_name":      form.OwnerName,
		"phone":           form.Phone,
		"email":           form.Email,
		"password":        form.Password,
		"verify_token":    form.VerifyToken,
		"wa_phone_id":     form.WAPhoneID,
		"wa_verify_token": form.WAVerifyToken,
	}
	files := map[string]UploadFile{}
	if doc != nil {
		files["uploaded_file"] = *doc
	}

	var resp StatusResponse
	err := c.postMultipart(ctx, "/api/register", fields, files, &resp)
	return resp, err
}

// Orders fetches the pending queue (orders awaiting business confirmation).
func (c *Client) Orders(ctx context.Context) (OrdersResponse, error) {
	var resp OrdersResponse
	err := c.getJSON(ctx, "/api/orders", &resp)
	return resp, err
}

// ConfirmedOrders fetches orders already confirmed for delivery.
func (c *Client) ConfirmedOrders(ctx context.Context) (OrdersResponse, error) {
	var resp OrdersResponse
	err := c.getJSON(ctx, "/api/confirmed-orders", &resp)
	return resp, err
}

// ConfirmOrder flips an order to confirmed-to-deliver. The customer hash
// identifies whose order book the ID lives in.
func (c *Client) ConfirmOrder(ctx context.Context, orderID, customerHash string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.postJSON(ctx, "/api/confirm-order/"+url.PathEscape(orderID), map[string]string{
		"customer_hash": customerHash,
	}, &resp)
	return resp, err
}

func (c *Client) AddCustomer(ctx context.Context, name, phone, planEndDate string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.postJSON(ctx, "/api/add-customer", map[string]string{
		"name":          name,
		"phone":         phone,
		"plan_end_date": planEndDate,
	}, &resp)
	return resp, err
}

func (c *Client) AddNonMember(ctx context.Context, name, phone string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.postJSON(ctx, "/api/add-non-member", map[string]string{
		"name":  name,
		"phone": phone,
	}, &resp)
	return resp, err
}

func (c *Client) UploadDocument(ctx context.Context, documentName string, doc UploadFile) (StatusResponse, error) {
	fields := map[string]string{"document_name": documentName}
	files := map[string]UploadFile{"document_file": doc}

	var resp StatusResponse
	err := c.postMultipart(ctx, "/api/upload-document", fields, files, &resp)
	return resp, err
}

func (c *Client) UpdatePaymentLink(ctx context.Context, link, description string) (StatusResponse, error) {
	var resp StatusResponse
	err := c.postJSON(ctx, "/api/update-payment-link", map[string]string{
		"payment_link": link,
		"description":  description,
	}, &resp)
	return resp, err
}

func (c *Client) Stats(ctx context.Context) (DashboardStats, error) {
	var resp DashboardStats
	err := c.getJSON(ctx, "/api/dashboard-stats", &resp)
	return resp, err
}

// NewOrders asks whether any order is waiting for confirmation. A transport
// error here is reported; the poller treats it as "nothing new".
func (c *Client) NewOrders(ctx context.Context) (NewOrdersResponse, error) {
	var resp NewOrdersResponse
	err := c.getJSON(ctx, "/api/new-orders", &resp)
	return resp, err
}

// VerifySession asks the backend whether the bearer token is still honored
// and returns a fresh business profile alongside.
func (c *Client) VerifySession(ctx context.Context) (VerifySessionResponse, error) {
	var resp VerifySessionResponse
	if err := c.getJSON(ctx, "/api/verify-session", &resp); err != nil {
		return resp, err
	}
	if resp.Status != "valid" {
		return resp, fmt.Errorf("unexpected verify-session status %q", resp.Status)
	}
	return resp, nil
}
