package wanderer

type memberJSON struct {
	EveCharacterID string `json:"eve_character_id"`
	Role           string `json:"role"`
}

type aclMembersResponse struct {
	Data struct {
		Members []memberJSON `json:"members"`
	} `json:"data"`
}

type memberEnvelope struct {
	Member memberJSON `json:"member"`
}

type addMemberRequest struct {
	Member memberJSON `json:"member"`
}

type setRoleRequest struct {
	Member struct {
		Role string `json:"role"`
	} `json:"member"`
}

type createACLRequest struct {
	ACL struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		OwnerEveID  string `json:"owner_eve_id"`
	} `json:"acl"`
}

type createACLResponse struct {
	Data struct {
		ID     string `json:"id"`
		APIKey string `json:"api_key"`
	} `json:"data"`
}

type aclInfoJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerEveID  string `json:"owner_eve_id"`
}

type mapACLsResponse struct {
	Data []aclInfoJSON `json:"data"`
}
