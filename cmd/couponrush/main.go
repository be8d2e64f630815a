// couponrush hammers checkout with a limited coupon to verify the guarded
// used_count increment under concurrency: with max_uses=N and M>N concurrent
// checkouts, exactly N must get the discount.
//
// Requires a running server with at least one payment provider configured
// (a sandbox key is enough) and a seeded product.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

var (
	baseURL    = flag.String("base", "http://localhost:8080", "API base URL")
	email      = flag.String("email", "admin@balao.local", "admin email")
	password   = flag.String("password", "admin123", "admin password")
	productID  = flag.String("product", "", "product id to buy (required)")
	provider   = flag.String("provider", "asaas", "payment provider")
	shoppers   = flag.Int("shoppers", 200, "concurrent checkouts")
	maxUses    = flag.Int("uses", 5, "coupon max uses")
	httpClient *http.Client
)

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 1000
	t.MaxIdleConnsPerHost = 1000
	t.MaxConnsPerHost = 1000
	httpClient = &http.Client{Transport: t, Timeout: 30 * time.Second}
}

func main() {
	flag.Parse()
	if *productID == "" {
		fmt.Println("missing -product")
		return
	}

	token := login()
	code := fmt.Sprintf("RUSH%d", time.Now().Unix())
	createCoupon(token, code)

	fmt.Printf("rush: %d shoppers, coupon %s limited to %d uses\n", *shoppers, code, *maxUses)

	var wg sync.WaitGroup
	var mu sync.Mutex
	discounted, rejected, failed := 0, 0, 0

	start := time.Now()
	for i := 0; i < *shoppers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch checkout(token, code) {
			case "discounted":
				mu.Lock()
				discounted++
				mu.Unlock()
			case "rejected":
				mu.Lock()
				rejected++
				mu.Unlock()
			default:
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	fmt.Printf("done in %s: discounted=%d rejected=%d failed=%d\n",
		time.Since(start), discounted, rejected, failed)
	if discounted > *maxUses {
		fmt.Println("OVERSOLD: guarded increment is broken")
	}
}

func login() string {
	body, _ := json.Marshal(map[string]string{"email": *email, "password": *password})
	resp, err := httpClient.Post(*baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &out); err != nil || out.Data.Token == "" {
		panic(fmt.Sprintf("login failed: %s", raw))
	}
	return out.Data.Token
}

func createCoupon(token, code string) {
	body, _ := json.Marshal(map[string]interface{}{
		"code":           code,
		"discount_type":  "percentage",
		"discount_value": 10,
		"max_uses":       *maxUses,
	})
	req, _ := http.NewRequest(http.MethodPost, *baseURL+"/admin/coupons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		panic(fmt.Sprintf("create coupon failed: %s", raw))
	}
}

func checkout(token, code string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"items":       []map[string]interface{}{{"product_id": *productID, "quantity": 1}},
		"provider":    *provider,
		"coupon_code": code,
	})
	req, _ := http.NewRequest(http.MethodPost, *baseURL+"/orders/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusOK {
		return "discounted"
	}

	var out struct {
		Code int `json:"code"`
	}
	_ = json.Unmarshal(raw, &out)
	// 20005 = usage limit reached
	if resp.StatusCode == http.StatusBadRequest && out.Code == 20005 {
		return "rejected"
	}
	return "failed"
}
