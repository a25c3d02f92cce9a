package portal

import (
	"os"
	"strings"
)

// envEChartsCDN overrides the ECharts assets host (a CDN or self-hosted bucket).
const envEChartsCDN = "KBADMIN_ECHARTS_CDN"

// DefaultEChartsAssetsHost returns the assets host from KBADMIN_ECHARTS_CDN.
// An empty value keeps the go-echarts default CDN.
func DefaultEChartsAssetsHost() string {
	return ensureTrailingSlash(strings.TrimSpace(os.Getenv(envEChartsCDN)))
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
