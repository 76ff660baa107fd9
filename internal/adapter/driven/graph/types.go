package graph

// applicationsPage is one page of GET /applications.
type applicationsPage struct {
	Value    []applicationJSON `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
}

type applicationJSON struct {
	ID                  string           `json:"id"`
	DisplayName         string           `json:"displayName"`
	KeyCredentials      []credentialJSON `json:"keyCredentials"`
	PasswordCredentials []credentialJSON `json:"passwordCredentials"`
}

// credentialJSON covers both keyCredential and passwordCredential resources.
// Password credentials carry no type or usage.
type credentialJSON struct {
	KeyID         string `json:"keyId"`
	DisplayName   string `json:"displayName"`
	Type          string `json:"type"`
	Usage         string `json:"usage"`
	Hint          string `json:"hint"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

type graphError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
