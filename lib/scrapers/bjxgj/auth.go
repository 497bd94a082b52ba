package bjxgj

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

type appInfo struct {
	AppVcode string `json:"app_vcode"`
	AppVname string `json:"app_vname"`
}

type deviceInfo struct {
	NetworkType string `json:"network_type"`
}

type authRequest struct {
	Random     string     `json:"random,omitempty"`
	Channel    string     `json:"channel"`
	Platform   string     `json:"platform"`
	AppInfo    appInfo    `json:"app_info"`
	DeviceInfo deviceInfo `json:"device_info"`
}

func newAuthRequest(random string) authRequest {
	return authRequest{
		Random:     random,
		Channel:    "app_web",
		Platform:   "app",
		AppInfo:    appInfo{AppVcode: "734", AppVname: "3.0.8"},
		DeviceInfo: deviceInfo{NetworkType: "WiFi"},
	}
}

// QRCodeURL returns the WeChat url a ticket resolves to, this is what
// gets rendered as a QR code for the operator to scan.
func QRCodeURL(ticket string) string {
	return fmt.Sprintf("https://mp.weixin.qq.com/cgi-bin/showqrcode?ticket=%s", ticket)
}

func (c *Client) GetQRTicket(ctx context.Context) (QRTicket, error) {
	ctx, span := tracer.Start(ctx, "client:GetQRTicket")
	defer span.End()

	var out struct {
		Data QRTicket `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(newAuthRequest("")).
		SetResult(&out).
		Post("/app/auth/getQrCodeImg")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request qr ticket")
		return QRTicket{}, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "qr ticket request rejected")
		return QRTicket{}, err
	}
	if out.Data.Ticket == "" || out.Data.Random == "" {
		err := fmt.Errorf("qr ticket response missing ticket or random")
		span.SetStatus(codes.Error, err.Error())
		return QRTicket{}, err
	}
	return out.Data, nil
}

func (c *Client) CheckLoginStatus(ctx context.Context, random string) (LoginStatus, error) {
	ctx, span := tracer.Start(ctx, "client:CheckLoginStatus")
	defer span.End()

	var out LoginStatus
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(newAuthRequest(random)).
		SetResult(&out).
		Post("/app/auth/checkLoginStatusWithToken")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check login status")
		return LoginStatus{}, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "login status request rejected")
		return LoginStatus{}, err
	}
	return out, nil
}
