/*
 *  Copyright (c) 2026, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package jira_client

import "net/http"

const (
	myselfPath = "rest/api/3/myself"
	issuePath  = "rest/api/3/issue"

	epicIssueType = "Epic"
)

// JiraUser is the authenticated account returned by the myself endpoint.
type JiraUser struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// CreatedIssue is the identifier set Jira returns for a newly created issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

type projectRef struct {
	Key string `json:"key"`
}

type issueTypeRef struct {
	Name string `json:"name"`
}

type issueFields struct {
	Project     projectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description string       `json:"description,omitempty"`
	IssueType   issueTypeRef `json:"issuetype"`
}

type createIssueRequest struct {
	Fields issueFields `json:"fields"`
}

// TestConnection verifies the credentials by fetching the authenticated user.
func (c *JiraClient) TestConnection() (*JiraUser, error) {
	req, err := c.newJSONRequest(http.MethodGet, c.buildURL(myselfPath), nil)
	if err != nil {
		return nil, err
	}
	var user JiraUser
	if err := c.doAndDecode(req, []int{http.StatusOK}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateEpic creates an Epic issue under the configured project key.
func (c *JiraClient) CreateEpic(summary, description string) (*CreatedIssue, error) {
	body := createIssueRequest{
		Fields: issueFields{
			Project:     projectRef{Key: c.cfg.ProjectKey},
			Summary:     summary,
			Description: description,
			IssueType:   issueTypeRef{Name: epicIssueType},
		},
	}
	req, err := c.newJSONRequest(http.MethodPost, c.buildURL(issuePath), body)
	if err != nil {
		return nil, err
	}
	var created CreatedIssue
	if err := c.doAndDecode(req, []int{http.StatusCreated}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
