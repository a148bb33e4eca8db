package api

import (
	"context"
	"crypto/sha1" //nolint:gosec // the platform signs requests with SHA-1
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// unsignedParams are sent with a signed request but never signed.
var unsignedParams = map[string]bool{
	"file":          true,
	"api_key":       true,
	"resource_type": true,
	"cloud_name":    true,
	"signature":     true,
}

// stringToSign joins the signable parameters as sorted key=value pairs.
func stringToSign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if unsignedParams[k] || params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+strings.Join(params[k], ","))
	}
	return strings.Join(pairs, "&")
}

// sign returns the hex SHA-1 of the signable parameters followed by the secret.
func sign(params url.Values, secret string) string {
	sum := sha1.Sum([]byte(stringToSign(params) + secret)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// signedPost adds timestamp, api_key and signature to params and posts them
// as a form to <kind>/<action>.
func (c *Client) signedPost(ctx context.Context, kind ResourceKind, action string, params url.Values, out any) error {
	if kind == "" {
		kind = KindAuto
	}
	params.Set("timestamp", strconv.FormatInt(c.now().Unix(), 10))
	params.Set("signature", sign(params, c.creds.APISecret))
	params.Set("api_key", c.creds.APIKey)

	target := c.endpoint(string(kind)+"/"+action, nil)
	return c.do(ctx, http.MethodPost, target, "application/x-www-form-urlencoded", []byte(params.Encode()), false, out)
}

// Upload stores file under params.PublicID.
func (c *Client) Upload(ctx context.Context, file string, params UploadParams) (*Resource, error) {
	form := url.Values{}
	form.Set("file", file)
	if params.PublicID != "" {
		form.Set("public_id", params.PublicID)
	}
	form.Set("overwrite", strconv.FormatBool(params.Overwrite))
	if params.Async {
		form.Set("async", "true")
	}
	if len(params.Context) > 0 {
		form.Set("context", encodeContext(params.Context))
	}

	var res Resource
	if err := c.signedPost(ctx, params.ResourceType, "upload", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Rename changes the public identifier of an asset.
func (c *Client) Rename(ctx context.Context, fromPublicID, toPublicID string, params RenameParams) (*Resource, error) {
	form := url.Values{}
	form.Set("from_public_id", fromPublicID)
	form.Set("to_public_id", toPublicID)
	form.Set("overwrite", strconv.FormatBool(params.Overwrite))

	kind := params.ResourceType
	if kind == "" || kind == KindAuto {
		kind = KindImage
	}

	var res Resource
	if err := c.signedPost(ctx, kind, "rename", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// encodeContext renders contextual metadata as key=value pairs joined by
// "|", escaping the separators inside values.
func encodeContext(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	esc := strings.NewReplacer("|", `\|`, "=", `\=`)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, esc.Replace(k)+"="+esc.Replace(m[k]))
	}
	return strings.Join(pairs, "|")
}
