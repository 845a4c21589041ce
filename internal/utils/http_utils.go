package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type HostPortProtocol struct {
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
}

func trimProtocolPrefix(addr string) string {
	addr = strings.TrimPrefix(addr, "tcp://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimPrefix(addr, "http://")
	return addr
}

func (t *HostPortProtocol) SetHostPort(ip string, port int) {
	ip = trimProtocolPrefix(ip)
	t.IP = ip
	t.Port = port
}

// This is the address string to use as arguments to net.Dial or net.Listen
// functions.
func (t *HostPortProtocol) BindString() string {
	if t.Port != 0 {
		return fmt.Sprintf("%s:%d", t.IP, t.Port)
	}
	return t.IP
}

func CreateHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns: 20,

		// The console talks to a single server.
		MaxIdleConnsPerHost: 5,

		IdleConnTimeout: 5 * time.Minute,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

type RequestSender struct {
	Client     *http.Client
	Method     string
	URL        string
	BodyReader io.Reader
}

func (sender *RequestSender) Send(parentContext context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(parentContext, sender.Method, sender.URL, sender.BodyReader)
	if err != nil {
		return nil, err
	}
	if sender.BodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := sender.Client.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
