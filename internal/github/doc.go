// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package github provides a client for listing pull requests through the
// GitHub REST API. It exposes a small Client interface so the rest of the
// application can be tested against a mock, and a RESTClient implementation
// that handles bearer-token authentication, pagination, and mapping of HTTP
// failures onto the application's sentinel errors.
package github
