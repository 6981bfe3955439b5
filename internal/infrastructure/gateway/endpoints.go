package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopsphere/client/internal/mapping"
)

// MessageResponse is the plain acknowledgement several endpoints return.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the registration body. Registration returns only an
// acknowledgement; it never establishes a session.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest is the credential body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse pairs the issued token with the raw user payload. The
// session layer maps the user through the mapping layer before persisting.
type LoginResponse struct {
	Token string              `json:"token"`
	User  mapping.UserPayload `json:"user"`
}

// OAuthExchangeRequest trades an identity-provider code for a session.
type OAuthExchangeRequest struct {
	Code     string `json:"code"`
	ClientID string `json:"clientId"`
}

// CartItemRequest is the body for cart add/update calls.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	ColorCode string `json:"colorCode,omitempty"`
	Quantity  int    `json:"quantity"`
}

// AddressPayload is an address record on the wire.
type AddressPayload struct {
	ID      string `json:"_id"`
	Label   string `json:"label"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// CategoryPayload is a category record on the wire.
type CategoryPayload struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// BoardPayload is a collaborative board on the wire.
type BoardPayload struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	OwnerID    string   `json:"ownerId"`
	ProductIDs []string `json:"productIds"`
}

// RoomPayload is a shared shopping room on the wire.
type RoomPayload struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	MemberIDs  []string `json:"memberIds"`
	ProductIDs []string `json:"productIds"`
}

// ImageRef identifies an uploaded image.
type ImageRef struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// Register submits a registration and returns the acknowledgement message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "auth.register", http.MethodPost, "/auth/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login exchanges credentials for a token and user payload.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, "auth.login", http.MethodPost, "/auth/login", req, &resp)
	return resp, err
}

// RefreshToken renews the current session.
func (c *Client) RefreshToken(ctx context.Context) (LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, "auth.refresh", http.MethodPost, "/auth/refresh", nil, &resp)
	return resp, err
}

// OAuthExchange trades an identity-provider code for a session.
func (c *Client) OAuthExchange(ctx context.Context, req OAuthExchangeRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, "auth.oauth", http.MethodPost, "/auth/oauth", req, &resp)
	return resp, err
}

// ---------------------------------------------------------------------------
// Product catalog
// ---------------------------------------------------------------------------

// ListProducts fetches the public catalog.
func (c *Client) ListProducts(ctx context.Context) ([]mapping.ProductPayload, error) {
	var resp []mapping.ProductPayload
	err := c.doJSON(ctx, "products.list", http.MethodGet, "/products", nil, &resp)
	return resp, err
}

// GetProduct fetches one public product.
func (c *Client) GetProduct(ctx context.Context, productID string) (mapping.ProductPayload, error) {
	var resp mapping.ProductPayload
	err := c.doJSON(ctx, "products.get", http.MethodGet, "/products/"+url.PathEscape(productID), nil, &resp)
	return resp, err
}

// SearchProducts runs a catalog search.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]mapping.ProductPayload, error) {
	var resp []mapping.ProductPayload
	err := c.doJSON(ctx, "products.search", http.MethodGet, "/products/search?q="+url.QueryEscape(query), nil, &resp)
	return resp, err
}

// CreateProduct creates a product (seller-privileged).
func (c *Client) CreateProduct(ctx context.Context, body mapping.SellerProductPayload) (mapping.SellerProductPayload, error) {
	var resp mapping.SellerProductPayload
	err := c.doJSON(ctx, "products.create", http.MethodPost, "/products", body, &resp)
	return resp, err
}

// UpdateProduct updates a product (seller-privileged).
func (c *Client) UpdateProduct(ctx context.Context, productID string, body mapping.SellerProductPayload) (mapping.SellerProductPayload, error) {
	var resp mapping.SellerProductPayload
	err := c.doJSON(ctx, "products.update", http.MethodPut, "/products/"+url.PathEscape(productID), body, &resp)
	return resp, err
}

// DeleteProduct removes a product (seller-privileged).
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	return c.doJSON(ctx, "products.delete", http.MethodDelete, "/products/"+url.PathEscape(productID), nil, nil)
}

// LikeProduct toggles the current user's like on a product.
func (c *Client) LikeProduct(ctx context.Context, productID string) (mapping.ProductPayload, error) {
	var resp mapping.ProductPayload
	err := c.doJSON(ctx, "products.like", http.MethodPost, "/products/"+url.PathEscape(productID)+"/like", nil, &resp)
	return resp, err
}

// CommentProduct adds a comment to a product.
func (c *Client) CommentProduct(ctx context.Context, productID, text string) (mapping.ProductPayload, error) {
	var resp mapping.ProductPayload
	body := map[string]string{"text": text}
	err := c.doJSON(ctx, "products.comment", http.MethodPost, "/products/"+url.PathEscape(productID)+"/comments", body, &resp)
	return resp, err
}

// PendingProducts lists products awaiting moderation (admin).
func (c *Client) PendingProducts(ctx context.Context) ([]mapping.SellerProductPayload, error) {
	var resp []mapping.SellerProductPayload
	err := c.doJSON(ctx, "products.pending", http.MethodGet, "/products/pending", nil, &resp)
	return resp, err
}

// ApproveProduct approves a pending product (admin).
func (c *Client) ApproveProduct(ctx context.Context, productID string) error {
	return c.doJSON(ctx, "products.approve", http.MethodPost, "/products/"+url.PathEscape(productID)+"/approve", nil, nil)
}

// RejectProduct rejects a pending product (admin).
func (c *Client) RejectProduct(ctx context.Context, productID, reason string) error {
	body := map[string]string{"reason": reason}
	return c.doJSON(ctx, "products.reject", http.MethodPost, "/products/"+url.PathEscape(productID)+"/reject", body, nil)
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

// GetCart fetches the server-owned cart.
func (c *Client) GetCart(ctx context.Context) (mapping.CartPayload, error) {
	var resp mapping.CartPayload
	err := c.doJSON(ctx, "cart.get", http.MethodGet, "/cart", nil, &resp)
	return resp, err
}

// AddCartItem adds an item to the server cart.
func (c *Client) AddCartItem(ctx context.Context, req CartItemRequest) error {
	return c.doJSON(ctx, "cart.add", http.MethodPost, "/cart/items", req, nil)
}

// RemoveCartItem removes a product from the server cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	return c.doJSON(ctx, "cart.remove", http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil, nil)
}

// UpdateCartQuantity sets the quantity of a cart line on the server.
func (c *Client) UpdateCartQuantity(ctx context.Context, productID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.doJSON(ctx, "cart.updateQuantity", http.MethodPatch, "/cart/items/"+url.PathEscape(productID), body, nil)
}

// ClearCart deletes the server cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, "cart.clear", http.MethodDelete, "/cart", nil, nil)
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateOrder submits a checkout and returns the order snapshot.
func (c *Client) CreateOrder(ctx context.Context, body map[string]any) (mapping.OrderPayload, error) {
	var resp mapping.OrderPayload
	err := c.doJSON(ctx, "orders.create", http.MethodPost, "/orders", body, &resp)
	return resp, err
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (mapping.OrderPayload, error) {
	var resp mapping.OrderPayload
	err := c.doJSON(ctx, "orders.get", http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &resp)
	return resp, err
}

// ListOrders fetches the current user's orders.
func (c *Client) ListOrders(ctx context.Context) ([]mapping.OrderPayload, error) {
	var resp []mapping.OrderPayload
	err := c.doJSON(ctx, "orders.list", http.MethodGet, "/orders", nil, &resp)
	return resp, err
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// ListPaymentMethods fetches the stored payment methods.
func (c *Client) ListPaymentMethods(ctx context.Context) ([]mapping.MethodPayload, error) {
	var resp []mapping.MethodPayload
	err := c.doJSON(ctx, "payments.listMethods", http.MethodGet, "/payment-methods", nil, &resp)
	return resp, err
}

// CreatePaymentMethod stores a payment method.
func (c *Client) CreatePaymentMethod(ctx context.Context, body mapping.MethodPayload) (mapping.MethodPayload, error) {
	var resp mapping.MethodPayload
	err := c.doJSON(ctx, "payments.createMethod", http.MethodPost, "/payment-methods", body, &resp)
	return resp, err
}

// DeletePaymentMethod removes a stored payment method.
func (c *Client) DeletePaymentMethod(ctx context.Context, methodID string) error {
	return c.doJSON(ctx, "payments.deleteMethod", http.MethodDelete, "/payment-methods/"+url.PathEscape(methodID), nil, nil)
}

// InitiatePayment starts a payment for an order. Amounts in the request and
// response are minor units; the mapping layer owns the conversion.
func (c *Client) InitiatePayment(ctx context.Context, req mapping.IntentRequest) (mapping.IntentPayload, error) {
	var resp mapping.IntentPayload
	err := c.doJSON(ctx, "payments.initiate", http.MethodPost, "/payments", req, &resp)
	return resp, err
}

// ---------------------------------------------------------------------------
// Addresses
// ---------------------------------------------------------------------------

// ListAddresses fetches the current user's addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]AddressPayload, error) {
	var resp []AddressPayload
	err := c.doJSON(ctx, "addresses.list", http.MethodGet, "/addresses", nil, &resp)
	return resp, err
}

// CreateAddress stores a new address.
func (c *Client) CreateAddress(ctx context.Context, body AddressPayload) (AddressPayload, error) {
	var resp AddressPayload
	err := c.doJSON(ctx, "addresses.create", http.MethodPost, "/addresses", body, &resp)
	return resp, err
}

// UpdateAddress updates a stored address.
func (c *Client) UpdateAddress(ctx context.Context, addressID string, body AddressPayload) (AddressPayload, error) {
	var resp AddressPayload
	err := c.doJSON(ctx, "addresses.update", http.MethodPut, "/addresses/"+url.PathEscape(addressID), body, &resp)
	return resp, err
}

// DeleteAddress removes a stored address.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) error {
	return c.doJSON(ctx, "addresses.delete", http.MethodDelete, "/addresses/"+url.PathEscape(addressID), nil, nil)
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

// UploadImage uploads a binary image. The multipart writer chooses the
// content type; only the bearer header is set.
func (c *Client) UploadImage(ctx context.Context, fileName string, file io.Reader) (ImageRef, error) {
	var resp ImageRef
	err := c.doMultipart(ctx, "images.upload", "/images", "file", fileName, file, &resp)
	return resp, err
}

// ImageURL returns the fetch URL for an uploaded image.
func (c *Client) ImageURL(imageID string) string {
	return fmt.Sprintf("%s/images/%s", c.baseURL, url.PathEscape(imageID))
}

// DeleteImage removes an uploaded image.
func (c *Client) DeleteImage(ctx context.Context, imageID string) error {
	return c.doJSON(ctx, "images.delete", http.MethodDelete, "/images/"+url.PathEscape(imageID), nil, nil)
}

// ---------------------------------------------------------------------------
// Categories and companies
// ---------------------------------------------------------------------------

// ListCategories fetches the category list.
func (c *Client) ListCategories(ctx context.Context) ([]CategoryPayload, error) {
	var resp []CategoryPayload
	err := c.doJSON(ctx, "categories.list", http.MethodGet, "/categories", nil, &resp)
	return resp, err
}

// CreateCategory creates a category (admin).
func (c *Client) CreateCategory(ctx context.Context, name string) (CategoryPayload, error) {
	var resp CategoryPayload
	body := map[string]string{"name": name}
	err := c.doJSON(ctx, "categories.create", http.MethodPost, "/categories", body, &resp)
	return resp, err
}

// ListCompanies fetches all companies.
func (c *Client) ListCompanies(ctx context.Context) ([]mapping.CompanyPayload, error) {
	var resp []mapping.CompanyPayload
	err := c.doJSON(ctx, "companies.list", http.MethodGet, "/companies", nil, &resp)
	return resp, err
}

// GetCompany fetches one company.
func (c *Client) GetCompany(ctx context.Context, companyID string) (mapping.CompanyPayload, error) {
	var resp mapping.CompanyPayload
	err := c.doJSON(ctx, "companies.get", http.MethodGet, "/companies/"+url.PathEscape(companyID), nil, &resp)
	return resp, err
}

// CreateCompany creates a company.
func (c *Client) CreateCompany(ctx context.Context, body mapping.CompanyPayload) (mapping.CompanyPayload, error) {
	var resp mapping.CompanyPayload
	err := c.doJSON(ctx, "companies.create", http.MethodPost, "/companies", body, &resp)
	return resp, err
}

// UpdateCompany updates a company.
func (c *Client) UpdateCompany(ctx context.Context, companyID string, body mapping.CompanyPayload) (mapping.CompanyPayload, error) {
	var resp mapping.CompanyPayload
	err := c.doJSON(ctx, "companies.update", http.MethodPut, "/companies/"+url.PathEscape(companyID), body, &resp)
	return resp, err
}

// DeleteCompany removes a company.
func (c *Client) DeleteCompany(ctx context.Context, companyID string) error {
	return c.doJSON(ctx, "companies.delete", http.MethodDelete, "/companies/"+url.PathEscape(companyID), nil, nil)
}

// ---------------------------------------------------------------------------
// Boards and rooms
// ---------------------------------------------------------------------------

// ListBoards fetches the current user's boards.
func (c *Client) ListBoards(ctx context.Context) ([]BoardPayload, error) {
	var resp []BoardPayload
	err := c.doJSON(ctx, "boards.list", http.MethodGet, "/boards", nil, &resp)
	return resp, err
}

// CreateBoard creates a board.
func (c *Client) CreateBoard(ctx context.Context, name string) (BoardPayload, error) {
	var resp BoardPayload
	body := map[string]string{"name": name}
	err := c.doJSON(ctx, "boards.create", http.MethodPost, "/boards", body, &resp)
	return resp, err
}

// AddProductToBoard pins a product to a board.
func (c *Client) AddProductToBoard(ctx context.Context, boardID, productID string) (BoardPayload, error) {
	var resp BoardPayload
	body := map[string]string{"productId": productID}
	err := c.doJSON(ctx, "boards.addProduct", http.MethodPost, "/boards/"+url.PathEscape(boardID)+"/products", body, &resp)
	return resp, err
}

// ListRooms fetches the current user's rooms.
func (c *Client) ListRooms(ctx context.Context) ([]RoomPayload, error) {
	var resp []RoomPayload
	err := c.doJSON(ctx, "rooms.list", http.MethodGet, "/rooms", nil, &resp)
	return resp, err
}

// CreateRoom creates a shared room.
func (c *Client) CreateRoom(ctx context.Context, name string) (RoomPayload, error) {
	var resp RoomPayload
	body := map[string]string{"name": name}
	err := c.doJSON(ctx, "rooms.create", http.MethodPost, "/rooms", body, &resp)
	return resp, err
}

// AddProductToRoom shares a product into a room.
func (c *Client) AddProductToRoom(ctx context.Context, roomID, productID string) (RoomPayload, error) {
	var resp RoomPayload
	body := map[string]string{"productId": productID}
	err := c.doJSON(ctx, "rooms.addProduct", http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/products", body, &resp)
	return resp, err
}

// ---------------------------------------------------------------------------
// Analytics and shop
// ---------------------------------------------------------------------------

// GetAnalytics fetches the dashboard aggregate (seller/admin).
func (c *Client) GetAnalytics(ctx context.Context) (mapping.SummaryPayload, error) {
	var resp mapping.SummaryPayload
	err := c.doJSON(ctx, "analytics.get", http.MethodGet, "/analytics", nil, &resp)
	return resp, err
}

// GetShop fetches a storefront.
func (c *Client) GetShop(ctx context.Context, shopID string) (mapping.ShopPayload, error) {
	var resp mapping.ShopPayload
	err := c.doJSON(ctx, "shop.get", http.MethodGet, "/shops/"+url.PathEscape(shopID), nil, &resp)
	return resp, err
}
